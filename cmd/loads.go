package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/model"
	"github.com/freightlink/match-cli/internal/store"
)

var loadsCmd = &cobra.Command{
	Use:   "loads",
	Short: "Manage the load catalogue",
}

var loadsImportFile string

var loadsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a catalogue file into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		loads, err := readLoadsFile(loadsImportFile)
		if err != nil {
			return err
		}

		n, err := st.SaveLoads(ctx, loads)
		if err != nil {
			return eris.Wrapf(err, "saved %d of %d loads", n, len(loads))
		}

		zap.L().Info("catalogue imported",
			zap.String("file", loadsImportFile),
			zap.Int("loads", n),
		)
		return nil
	},
}

var (
	loadsListStatus string
	loadsListFrom   string
	loadsListTo     string
	loadsListLimit  int
)

var loadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue loads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		loads, err := st.ListLoads(ctx, store.LoadFilter{
			Status:       model.LoadStatus(loadsListStatus),
			FromLocation: loadsListFrom,
			ToLocation:   loadsListTo,
			Limit:        loadsListLimit,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(loads)
	},
}

var loadsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with a small sample catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		n, err := st.SaveLoads(ctx, sampleLoads())
		if err != nil {
			return err
		}

		zap.L().Info("sample catalogue seeded", zap.Int("loads", n))
		return nil
	},
}

func sampleLoads() []*model.Load {
	price := func(v float64) *float64 { return &v }
	now := time.Now().UTC()
	return []*model.Load{
		{
			ID:            "L001",
			BookingOffice: "Chennai Office",
			PostedAt:      now,
			FromLocation:  "Chennai",
			ToLocation:    "Bangalore",
			TruckType:     "Container",
			TruckLength:   "20",
			Tonnage:       "20",
			Product:       "General Cargo",
			Price:         price(25000),
			NumTrucks:     1,
			ETA:           "2 days",
			Status:        model.LoadStatusAvailable,
		},
		{
			ID:            "L002",
			BookingOffice: "Mumbai Office",
			PostedAt:      now,
			FromLocation:  "Mumbai",
			ToLocation:    "Coimbatore",
			TruckType:     "Open",
			TruckLength:   "25",
			Tonnage:       "15",
			Product:       "Textiles",
			Price:         price(18000),
			NumTrucks:     1,
			ETA:           "1 day",
			Status:        model.LoadStatusAvailable,
		},
		{
			ID:            "L003",
			BookingOffice: "Tumakuru Office",
			PostedAt:      now,
			FromLocation:  "Tumakuru",
			ToLocation:    "Madurai",
			TruckType:     "Open",
			TruckLength:   "25",
			Tonnage:       "25",
			Product:       "Agriculture",
			Price:         price(22000),
			NumTrucks:     1,
			ETA:           "3 days",
			Status:        model.LoadStatusAvailable,
		},
	}
}

func init() {
	loadsImportCmd.Flags().StringVar(&loadsImportFile, "file", "", "catalogue file, .xlsx or .json (required)")
	_ = loadsImportCmd.MarkFlagRequired("file")

	loadsListCmd.Flags().StringVar(&loadsListStatus, "status", "", "filter by status")
	loadsListCmd.Flags().StringVar(&loadsListFrom, "from", "", "filter by origin")
	loadsListCmd.Flags().StringVar(&loadsListTo, "to", "", "filter by destination")
	loadsListCmd.Flags().IntVar(&loadsListLimit, "limit", 0, "max loads to list")

	loadsCmd.AddCommand(loadsImportCmd)
	loadsCmd.AddCommand(loadsListCmd)
	loadsCmd.AddCommand(loadsSeedCmd)
	rootCmd.AddCommand(loadsCmd)
}
