package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/catalog"
	"github.com/freightlink/match-cli/internal/extract"
)

var extractTranscript string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract entities from a call transcript",
	RunE: func(cmd *cobra.Command, args []string) error {
		kb, err := initKnowledge()
		if err != nil {
			return eris.Wrap(err, "init knowledge")
		}

		transcript, err := catalog.ReadTranscript(extractTranscript)
		if err != nil {
			return err
		}

		extractor := extract.New(kb, cfg.Extractor)
		entities := extractor.Extract(*transcript)

		zap.L().Info("extraction complete",
			zap.String("transcript_id", transcript.ID),
			zap.Float64("confidence", entities.OverallConfidence()),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entities)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractTranscript, "transcript", "", "transcript JSON file (required)")
	_ = extractCmd.MarkFlagRequired("transcript")
	rootCmd.AddCommand(extractCmd)
}
