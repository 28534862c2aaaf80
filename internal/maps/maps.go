// Package maps provides driving distances via the Google Distance Matrix
// HTTP API.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mygoodmovers/movebot/internal/pricing"
)

const (
	defaultBaseURL = "https://maps.googleapis.com/maps/api"
	metersPerMile  = 1609.34
)

// Client calls the Distance Matrix API. It implements pricing.Distance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a Distance Matrix client. baseURL may be empty to use
// the Google endpoint; tests point it at a local server.
func NewClient(log *slog.Logger, baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("maps: api key is required")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  log.With(slog.String("service", "maps")),
	}, nil
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Drive returns the driving distance in miles between two free-text
// locations, rounded to two decimals.
func (c *Client) Drive(ctx context.Context, origin, destination string) (float64, error) {
	query := url.Values{}
	query.Set("origins", origin)
	query.Set("destinations", destination)
	query.Set("mode", "driving")
	query.Set("key", c.apiKey)

	endpoint := c.baseURL + "/distancematrix/json?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build distance request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("distance matrix request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("distance matrix returned status %d", resp.StatusCode)
	}

	var parsed matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode distance response: %w", err)
	}

	if parsed.Status != "OK" {
		return 0, fmt.Errorf("distance matrix status %q", parsed.Status)
	}
	if len(parsed.Rows) == 0 || len(parsed.Rows[0].Elements) == 0 {
		return 0, errors.New("distance matrix returned no elements")
	}
	element := parsed.Rows[0].Elements[0]
	if element.Status != "OK" {
		c.logger.Error("distance element error",
			slog.String("status", element.Status),
			slog.String("origin", origin),
			slog.String("destination", destination),
		)
		return 0, fmt.Errorf("distance matrix element status %q", element.Status)
	}

	miles := float64(element.Distance.Value) / metersPerMile
	miles = float64(int64(miles*100+0.5)) / 100

	c.logger.Debug("distance calculated",
		slog.String("origin", origin),
		slog.String("destination", destination),
		slog.Float64("miles", miles),
	)
	return miles, nil
}

// NoRuralData is a rurality source with no coverage. Quotes skip the rural
// surcharge until a real classifier is wired in.
type NoRuralData struct{}

// IsRural always reports false.
func (NoRuralData) IsRural(string) bool { return false }

var _ pricing.Distance = (*Client)(nil)
var _ pricing.RuralChecker = NoRuralData{}
