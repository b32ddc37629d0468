// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlgen renders coordinate entries as Oracle INSERT scripts for the
// GPS_COORDINATES table.
package sqlgen

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"tracklog/coords"
)

// Output file names, written beside the input CSV.
const (
	InsertFile      = "insert_coordinates.sql"
	BatchInsertFile = "insert_coordinates_batch.sql"
)

// DefaultBatchSize is the number of rows per statement in batch mode.
const DefaultBatchSize = 1000

// insertColumns is the fixed target schema; downstream loading tooling
// depends on these names.
const insertColumns = "GPS_COORDINATES (datetime_utc, latitude, longitude, altitude_meters)"

// Generator renders SQL scripts from coordinate entries.
type Generator struct {
	BatchSize int
}

// Single quotes are escaped by doubling, per SQL string literal rules.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Empty altitude becomes the NULL literal; otherwise the numeric text is
// inlined unquoted.
func altitudeClause(e *coords.Coordinate) string {
	if e.Altitude == nil {
		return "NULL"
	}

	return coords.FormatFloat(*e.Altitude)
}

// WriteInserts writes one INSERT per entry to outPath, each followed by a
// commit, inside a single anonymous block. source names the CSV the entries
// came from, for the header comment. It returns the number of rows written.
func (g *Generator) WriteInserts(entries []coords.Coordinate, source, outPath string) (int, error) {
	err := writeScript(outPath, func(w *bufio.Writer) error {
		fmt.Fprintf(w, "-- Oracle INSERT statements for GPS_COORDINATES table\n")
		fmt.Fprintf(w, "-- Total records: %d\n", len(entries))
		fmt.Fprintf(w, "-- Generated from %s\n", source)
		fmt.Fprintf(w, "-- Execute with: sqlplus user/password @%s\n\n", filepath.Base(outPath))

		fmt.Fprintf(w, "-- Optional: Disable constraints for faster loading\n")
		fmt.Fprintf(w, "-- ALTER TABLE GPS_COORDINATES DISABLE ALL TRIGGERS;\n\n")

		fmt.Fprintf(w, "-- Start transaction\n")
		fmt.Fprintf(w, "SET TRANSACTION ISOLATION LEVEL READ COMMITTED;\n\n")

		fmt.Fprintf(w, "-- Individual INSERT statements\n")
		fmt.Fprintf(w, "BEGIN\n")

		for i := range entries {
			e := &entries[i]
			// Oracle's TO_TIMESTAMP_TZ wants an explicit offset, not Z
			dt := strings.Replace(escapeQuotes(e.Datetime()), "Z", "+00:00", 1)

			fmt.Fprintf(w,
				"  INSERT INTO %s VALUES (TO_TIMESTAMP_TZ('%s', 'YYYY-MM-DD\"T\"HH24:MI:SSTZH:TZM'), %s, %s, %s);\n",
				insertColumns,
				dt,
				coords.FormatFloat(e.Point.Lat),
				coords.FormatFloat(e.Point.Lng),
				altitudeClause(e),
			)
			fmt.Fprintf(w, "  COMMIT; -- Committed record %d\n", i+1)
		}

		fmt.Fprintf(w, "END;\n/\n\n")

		writeCountCheck(w)

		fmt.Fprintf(w, "\n-- Optional: Re-enable constraints\n")
		fmt.Fprintf(w, "-- ALTER TABLE GPS_COORDINATES ENABLE ALL TRIGGERS;\n")

		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(entries), nil
}

// WriteBatchInserts writes INSERT … SELECT statements over inline VALUES
// constructors, one commit per batch. It returns the number of rows written.
func (g *Generator) WriteBatchInserts(entries []coords.Coordinate, source, outPath string) (int, error) {
	size := g.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	err := writeScript(outPath, func(w *bufio.Writer) error {
		fmt.Fprintf(w, "-- Oracle BATCH INSERT statements for GPS_COORDINATES table\n")
		fmt.Fprintf(w, "-- Total records: %d\n", len(entries))
		fmt.Fprintf(w, "-- Batch size: %d\n", size)
		fmt.Fprintf(w, "-- Generated from %s\n", source)
		fmt.Fprintf(w, "-- Execute with: sqlplus user/password @%s\n\n", filepath.Base(outPath))

		fmt.Fprintf(w, "SET TIMING ON;\n")
		fmt.Fprintf(w, "SET FEEDBACK ON;\n\n")

		batchNum := 0

		for batch := range slices.Chunk(entries, size) {
			batchNum++

			fmt.Fprintf(w, "-- Batch %d (%d records)\n", batchNum, len(batch))
			fmt.Fprintf(w, "INSERT INTO %s\n", insertColumns)
			fmt.Fprintf(w, "SELECT * FROM (\n")
			fmt.Fprintf(w, "  SELECT TO_TIMESTAMP_TZ(col1, 'YYYY-MM-DDTHH24:MI:SSXFF TZR'), col2, col3, col4 FROM (\n")
			fmt.Fprintf(w, "    VALUES ")

			for i := range batch {
				if i > 0 {
					fmt.Fprintf(w, ",\n           ")
				}

				e := &batch[i]
				fmt.Fprintf(w, "('%s', %s, %s, %s)",
					escapeQuotes(e.Datetime()),
					coords.FormatFloat(e.Point.Lat),
					coords.FormatFloat(e.Point.Lng),
					altitudeClause(e),
				)
			}

			fmt.Fprintf(w, "\n  )\n);\nCOMMIT;\n\n")
		}

		writeCountCheck(w)

		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(entries), nil
}

func writeCountCheck(w *bufio.Writer) {
	fmt.Fprintf(w, "-- Verify record count\n")
	fmt.Fprintf(w, "SELECT COUNT(*) as total_records FROM GPS_COORDINATES;\n")
}

func writeScript(path string, render func(*bufio.Writer) error) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating sql file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing sql file: %w", cerr))
		}
	}()

	w := bufio.NewWriter(f)

	if err := render(w); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing sql file: %w", err)
	}

	return nil
}
