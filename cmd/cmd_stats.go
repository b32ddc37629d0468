// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"tracklog/coords"
	"tracklog/store"
)

var statsDBPath string

var statsCmd = &cobra.Command{
	Use:   "stats [coordinates.csv]",
	Short: "Prints a summary of a coordinates CSV or a loaded database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		csvPath := "coordinates.csv"
		if len(args) > 0 {
			csvPath = args[0]
		}

		entries, err := statsEntries(csvPath)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No coordinate entries")

			return nil
		}

		// The CSV is sorted by contract, but a hand-edited file might not be
		slices.SortStableFunc(entries, func(a, b coords.Coordinate) int {
			return a.Time.Compare(b.Time)
		})

		minLat, maxLat := entries[0].Point.Lat, entries[0].Point.Lat
		minLng, maxLng := entries[0].Point.Lng, entries[0].Point.Lng

		var meters float64

		for i := range entries {
			p := entries[i].Point
			minLat, maxLat = min(minLat, p.Lat), max(maxLat, p.Lat)
			minLng, maxLng = min(minLng, p.Lng), max(maxLng, p.Lng)

			if i > 0 {
				meters += entries[i-1].Point.HaversineDistance(&p)
			}
		}

		fmt.Printf("Entries:        %d\n", len(entries))
		fmt.Printf("First:          %s\n", entries[0].Datetime())
		fmt.Printf("Last:           %s\n", entries[len(entries)-1].Datetime())
		fmt.Printf("Bounding box:   [%s, %s] .. [%s, %s]\n",
			coords.FormatFloat(minLat), coords.FormatFloat(minLng),
			coords.FormatFloat(maxLat), coords.FormatFloat(maxLng))
		fmt.Printf("Track distance: %.1f km\n", meters/1000)

		return nil
	},
}

// statsEntries reads the coordinate entries either from the CSV or, when
// --db is set, back out of a previously loaded DuckDB database.
func statsEntries(csvPath string) ([]coords.Coordinate, error) {
	if statsDBPath == "" {
		return coords.ReadCSV(csvPath)
	}

	db, err := sql.Open("duckdb", statsDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	repo, err := store.NewSQLCoordinateRepository(db)
	if err != nil {
		return nil, fmt.Errorf("initializing repository: %w", err)
	}

	return repo.Entries()
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(
		&statsDBPath,
		"db",
		"",
		"Summarize a loaded DuckDB database instead of a CSV",
	)
}
