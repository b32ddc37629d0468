// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package coords

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"tracklog/spatial"
)

// header is the CSV interface contract between the two stages: field names,
// order, and the empty-string convention for missing altitude.
var header = []string{"datetime", "latitude", "longitude", "altitude"}

var errBadHeader = errors.New("unexpected CSV header")

// WriteCSV writes the entries to path as UTF-8 CSV with the canonical header.
func WriteCSV(path string, entries []Coordinate) (err error) {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating csv file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing csv file: %w", cerr))
		}
	}()

	w := csv.NewWriter(f)

	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	row := make([]string, len(header))

	for i := range entries {
		e := &entries[i]
		row[0] = e.Datetime()
		row[1] = FormatFloat(e.Point.Lat)
		row[2] = FormatFloat(e.Point.Lng)

		if e.Altitude != nil {
			row[3] = FormatFloat(*e.Altitude)
		} else {
			row[3] = ""
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// ReadCSV reads a coordinates CSV back into entries. Every row is validated:
// the datetime must be an offset-aware ISO-8601 timestamp, latitude and
// longitude must parse as floats, and altitude must be empty or a float.
// A malformed row is an error naming the row number, so that bad content
// never propagates into generated SQL.
func ReadCSV(path string) (_ []Coordinate, err error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing csv file: %w", cerr))
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	first, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	for i, name := range header {
		if first[i] != name {
			return nil, fmt.Errorf("%w: got %v", errBadHeader, first)
		}
	}

	var entries []Coordinate

	for row := 1; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", row, err)
		}

		entry, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRow(record []string) (Coordinate, error) {
	t, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return Coordinate{}, fmt.Errorf("parsing datetime %q: %w", record[0], err)
	}

	lat, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parsing latitude %q: %w", record[1], err)
	}

	lng, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("parsing longitude %q: %w", record[2], err)
	}

	entry := Coordinate{
		Time:  t.UTC(),
		Point: spatial.Point{Lat: lat, Lng: lng},
	}

	if record[3] != "" {
		alt, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return Coordinate{}, fmt.Errorf("parsing altitude %q: %w", record[3], err)
		}

		entry.Altitude = &alt
	}

	return entry, nil
}
