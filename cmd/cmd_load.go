// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"tracklog/coords"
	"tracklog/store"
)

var loadDBPath string

var loadCmd = &cobra.Command{
	Use:   "load [coordinates.csv]",
	Short: "Loads a coordinates CSV into a local DuckDB database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		csvPath := "coordinates.csv"
		if len(args) > 0 {
			csvPath = args[0]
		}

		entries, err := coords.ReadCSV(csvPath)
		if err != nil {
			return err
		}

		db, err := sql.Open("duckdb", loadDBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		repo, err := store.NewSQLCoordinateRepository(db)
		if err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}

		if err := repo.CreateSchema(); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}

		if err := repo.ReplaceAll(entries); err != nil {
			return fmt.Errorf("loading entries: %w", err)
		}

		n, err := repo.Count()
		if err != nil {
			return fmt.Errorf("verifying load: %w", err)
		}

		log.Printf("Loaded %d coordinate entries into %s", n, loadDBPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(
		&loadDBPath,
		"db",
		"tracklog.duckdb",
		"Path of the DuckDB database to load into",
	)
}
