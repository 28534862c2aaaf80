package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mygoodmovers/movebot/internal/pricing"
)

type mockQuoteEngine struct {
	EstimateFunc func(ctx context.Context, in pricing.Input) (pricing.Quote, error)
}

func (m *mockQuoteEngine) Estimate(ctx context.Context, in pricing.Input) (pricing.Quote, error) {
	return m.EstimateFunc(ctx, in)
}

type mockDistance struct {
	DriveFunc func(ctx context.Context, origin, destination string) (float64, error)
}

func (m *mockDistance) Drive(ctx context.Context, origin, destination string) (float64, error) {
	return m.DriveFunc(ctx, origin, destination)
}

func newEstimateContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEstimateNormalizesInput(t *testing.T) {
	var got pricing.Input
	h := NewEstimateHandler(slog.Default(),
		&mockQuoteEngine{EstimateFunc: func(_ context.Context, in pricing.Input) (pricing.Quote, error) {
			got = in
			return pricing.Quote{DistanceMiles: 2500, CostMin: 5181, CostMax: 6594}, nil
		}},
		&mockDistance{DriveFunc: func(_ context.Context, _, _ string) (float64, error) {
			t.Fatal("unexpected distance call")
			return 0, nil
		}},
	)

	c, rec := newEstimateContext(t, `{
		"origin": "New York",
		"destination": "Vegas",
		"move_size": "2 bed apartment",
		"move_date": "2027-03-31",
		"additional_services": ["packing service", "bubble wrap"]
	}`)
	if err := h.Estimate(c); err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Size != "2-bedroom" {
		t.Fatalf("size not normalized: %q", got.Size)
	}
	if len(got.Services) != 1 || got.Services[0] != "packing" {
		t.Fatalf("services not normalized: %v", got.Services)
	}

	var quote pricing.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if quote.CostMin != 5181 || quote.CostMax != 6594 {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

func TestEstimateValidation(t *testing.T) {
	h := NewEstimateHandler(slog.Default(),
		&mockQuoteEngine{EstimateFunc: func(_ context.Context, _ pricing.Input) (pricing.Quote, error) {
			t.Fatal("unexpected estimate call")
			return pricing.Quote{}, nil
		}},
		&mockDistance{},
	)

	c, _ := newEstimateContext(t, `{"origin": "New York"}`)
	err := h.Estimate(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestEstimateDistanceUnavailable(t *testing.T) {
	h := NewEstimateHandler(slog.Default(),
		&mockQuoteEngine{EstimateFunc: func(_ context.Context, _ pricing.Input) (pricing.Quote, error) {
			return pricing.Quote{}, pricing.ErrDistanceUnavailable
		}},
		&mockDistance{},
	)

	c, _ := newEstimateContext(t, `{"origin": "Atlantis", "destination": "Miami", "move_size": "studio"}`)
	err := h.Estimate(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("err = %v, want 502", err)
	}
}
