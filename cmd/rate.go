package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	rateTruckType  string
	rateDistanceKm float64
	rateSeason     string
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Estimate the benchmark rate for a truck class over a distance",
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := initKnowledge()
		if err != nil {
			return eris.Wrap(err, "init knowledge")
		}

		season := rateSeason
		if season == "" {
			season = "normal"
		}

		est, ok := kb.EstimateRate(rateTruckType, rateDistanceKm, season)
		if !ok {
			return eris.Errorf("no rate benchmark for truck class %q", rateTruckType)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	},
}

func init() {
	rateCmd.Flags().StringVar(&rateTruckType, "truck-type", "", "canonical truck class (required)")
	rateCmd.Flags().Float64Var(&rateDistanceKm, "distance-km", 0, "route distance in km (required)")
	rateCmd.Flags().StringVar(&rateSeason, "season", "", "seasonal factor name")
	_ = rateCmd.MarkFlagRequired("truck-type")
	_ = rateCmd.MarkFlagRequired("distance-km")
	rootCmd.AddCommand(rateCmd)
}
