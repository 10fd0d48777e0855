package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/catalog"
	"github.com/freightlink/match-cli/internal/extract"
	"github.com/freightlink/match-cli/internal/match"
)

var (
	matchTranscript string
	matchLoadsFile  string
	matchTopN       int
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a transcript against a load catalogue file",
	Long:  "Runs extraction and scoring entirely in memory, without the store. Useful for one-off checks against a catalogue export.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kb, err := initKnowledge()
		if err != nil {
			return eris.Wrap(err, "init knowledge")
		}

		transcript, err := catalog.ReadTranscript(matchTranscript)
		if err != nil {
			return err
		}
		loads, err := readLoadsFile(matchLoadsFile)
		if err != nil {
			return err
		}

		extractor := extract.New(kb, cfg.Extractor)
		matcher, err := match.New(kb, cfg.Matcher)
		if err != nil {
			return err
		}

		entities := extractor.Extract(*transcript)
		results, err := matcher.Match(ctx, &entities, loads)
		if err != nil {
			return err
		}
		if matchTopN > 0 && len(results) > matchTopN {
			results = results[:matchTopN]
		}

		zap.L().Info("matching complete",
			zap.String("transcript_id", transcript.ID),
			zap.Int("loads", len(loads)),
			zap.Int("ranked", len(results)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchTranscript, "transcript", "", "transcript JSON file (required)")
	matchCmd.Flags().StringVar(&matchLoadsFile, "loads", "", "load catalogue file, .xlsx or .json (required)")
	matchCmd.Flags().IntVar(&matchTopN, "top", 0, "limit output to the top N matches")
	_ = matchCmd.MarkFlagRequired("transcript")
	_ = matchCmd.MarkFlagRequired("loads")
	rootCmd.AddCommand(matchCmd)
}
