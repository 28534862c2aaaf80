package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mygoodmovers/movebot/internal/logger"
	"github.com/mygoodmovers/movebot/internal/maps"
	"github.com/mygoodmovers/movebot/internal/pricing"
	"github.com/mygoodmovers/movebot/internal/slots"
)

func init() {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Price a move without a conversation",
		Run:   runEstimate,
	}

	cmd.Flags().String("from", "", "Origin location (required)")
	cmd.Flags().String("to", "", "Destination location (required)")
	cmd.Flags().String("size", "", "Move size, e.g. 'studio' or '2-bedroom' (required)")
	cmd.Flags().String("date", "", "Move date (ISO or natural language)")
	cmd.Flags().StringSlice("services", nil, "Additional services (packing, storage)")

	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("size")

	RootCmd.AddCommand(cmd)
}

func runEstimate(cmd *cobra.Command, _ []string) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	size, _ := cmd.Flags().GetString("size")
	date, _ := cmd.Flags().GetString("date")
	services, _ := cmd.Flags().GetStringSlice("services")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if date != "" {
		normalized, err := slots.NormalizeDate(date, time.Now())
		if err != nil {
			exitErr("parse date", err)
		}
		date = normalized
	}

	mapsClient, err := maps.NewClient(log, cfg.Maps.BaseURL, cfg.Maps.APIKey, time.Duration(cfg.Maps.TimeoutSeconds)*time.Second)
	if err != nil {
		exitErr("maps client", err)
	}
	estimator := pricing.NewEstimator(log, mapsClient, maps.NoRuralData{})

	quote, err := estimator.Estimate(cmd.Context(), pricing.Input{
		Origin:      from,
		Destination: to,
		Size:        slots.NormalizeSize(size),
		Services:    slots.NormalizeServices(services),
		Date:        date,
	})
	if err != nil {
		exitErr("estimate", err)
	}

	out, _ := json.MarshalIndent(quote, "", "  ")
	fmt.Println(string(out))
}
