// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"tracklog/coords"
	"tracklog/sqlgen"
)

var (
	sqlBatchSize int
	sqlMode      string
)

var sqlCmd = &cobra.Command{
	Use:   "sql [coordinates.csv]",
	Short: "Renders a coordinates CSV as SQL INSERT scripts",
	Long: `Reads a coordinates CSV and writes SQL scripts for the GPS_COORDINATES
table beside it: insert_coordinates.sql (one INSERT per row) and
insert_coordinates_batch.sql (multi-row VALUES batches).

Use insert_coordinates_batch.sql for faster loading.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		csvPath := "coordinates.csv"
		if len(args) > 0 {
			csvPath = args[0]
		}

		if sqlMode != "both" && sqlMode != "single" && sqlMode != "batch" {
			return fmt.Errorf("unknown mode %q: want both, single or batch", sqlMode)
		}

		// Read and validate the CSV once; both scripts render the same rows.
		entries, err := coords.ReadCSV(csvPath)
		if err != nil {
			return err
		}

		dir := filepath.Dir(csvPath)
		source := filepath.Base(csvPath)
		generator := &sqlgen.Generator{BatchSize: sqlBatchSize}

		if sqlMode == "both" || sqlMode == "single" {
			out := filepath.Join(dir, sqlgen.InsertFile)

			n, err := generator.WriteInserts(entries, source, out)
			if err != nil {
				return err
			}

			log.Printf("Generated %d INSERT statements in %s", n, out)
		}

		if sqlMode == "both" || sqlMode == "batch" {
			out := filepath.Join(dir, sqlgen.BatchInsertFile)

			n, err := generator.WriteBatchInserts(entries, source, out)
			if err != nil {
				return err
			}

			log.Printf("Generated batch INSERT statements for %d records in %s", n, out)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sqlCmd)
	sqlCmd.Flags().IntVar(
		&sqlBatchSize,
		"batch-size",
		sqlgen.DefaultBatchSize,
		"Rows per statement in the batch script",
	)
	sqlCmd.Flags().StringVar(
		&sqlMode,
		"mode",
		"both",
		"Which scripts to generate: both, single or batch",
	)
}
