package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/catalog"
	"github.com/freightlink/match-cli/internal/model"
	"github.com/freightlink/match-cli/internal/pipeline"
)

var (
	processTranscript string
	processLoadsFile  string
	processTopN       int
	processDistanceKm float64
	processSeason     string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the full pipeline for one transcript",
	Long:  "Extracts entities, matches against the stored catalogue (or a catalogue file), assesses the business action, and records the run.",
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

		kb, err := initKnowledge()
		if err != nil {
			return eris.Wrap(err, "init knowledge")
		}
		runner, err := initRunner(kb, st)
		if err != nil {
			return err
		}

		transcript, err := catalog.ReadTranscript(processTranscript)
		if err != nil {
			return err
		}

		opts := pipeline.Options{
			TopN:       processTopN,
			DistanceKm: processDistanceKm,
			Season:     processSeason,
		}

		var result *model.RunResult
		if processLoadsFile != "" {
			loads, err := readLoadsFile(processLoadsFile)
			if err != nil {
				return err
			}
			result, err = runner.Process(ctx, transcript, loads, opts)
			if err != nil {
				return err
			}
		} else {
			result, err = runner.ProcessFromStore(ctx, transcript, opts)
			if err != nil {
				return err
			}
		}

		zap.L().Info("pipeline complete",
			zap.String("transcript_id", transcript.ID),
			zap.String("action", string(result.Assessment.Action)),
			zap.Int("matches", len(result.Matches)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	processCmd.Flags().StringVar(&processTranscript, "transcript", "", "transcript JSON file (required)")
	processCmd.Flags().StringVar(&processLoadsFile, "loads", "", "catalogue file override, .xlsx or .json (default: stored catalogue)")
	processCmd.Flags().IntVar(&processTopN, "top", 5, "limit result to the top N matches")
	processCmd.Flags().Float64Var(&processDistanceKm, "distance-km", 0, "route distance for the benchmark rate check")
	processCmd.Flags().StringVar(&processSeason, "season", "", "seasonal rate factor name")
	_ = processCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(processCmd)
}
