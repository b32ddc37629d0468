// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"tracklog/timeline"
)

var extractOutput string

var extractCmd = &cobra.Command{
	Use:   "extract [Timeline.json]",
	Short: "Extracts GPS coordinates from a Timeline export into a CSV",
	Long: `Reads a Google Timeline JSON export, walks its raw signals and semantic
segments, and writes the deduplicated, time-sorted coordinates as CSV.

By default the CSV is written as coordinates.csv next to the input file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		jsonPath := "Timeline.json"
		if len(args) > 0 {
			jsonPath = args[0]
		}

		csvPath := extractOutput
		if csvPath == "" {
			csvPath = filepath.Join(filepath.Dir(jsonPath), "coordinates.csv")
		}

		extractor := &timeline.Extractor{}

		n, err := extractor.ExtractFile(jsonPath, csvPath)
		if err != nil {
			return err
		}

		m := &extractor.Metrics
		log.Printf(
			"Extraction complete - %d unique coordinates from %d raw signals and %d path points (%d skipped, %d duplicates), written to %s",
			n,
			m.RawSignals,
			m.PathPoints,
			m.Skipped,
			m.Duplicates,
			csvPath,
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(
		&extractOutput,
		"output",
		"o",
		"",
		"Path of the CSV to write. Defaults to coordinates.csv beside the input",
	)
}
