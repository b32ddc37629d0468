// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package sqlgen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracklog/coords"
	"tracklog/spatial"
)

func fixtureEntries(n int) []coords.Coordinate {
	alt := 230.5
	entries := make([]coords.Coordinate, 0, n)

	for i := range n {
		entry := coords.Coordinate{
			Time:  time.Date(2024, time.January, 1, 16, i, 0, 0, time.UTC),
			Point: spatial.Point{Lat: 49.9, Lng: -97.0},
		}
		if i == 0 {
			entry.Altitude = &alt
		}

		entries = append(entries, entry)
	}

	return entries
}

func TestWriteInserts(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), InsertFile)

	g := &Generator{}

	n, err := g.WriteInserts(fixtureEntries(2), "coordinates.csv", outPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)

	// Z is rewritten to an explicit offset for TO_TIMESTAMP_TZ
	assert.Contains(t, out,
		"INSERT INTO GPS_COORDINATES (datetime_utc, latitude, longitude, altitude_meters) "+
			`VALUES (TO_TIMESTAMP_TZ('2024-01-01T16:00:00+00:00', 'YYYY-MM-DD"T"HH24:MI:SSTZH:TZM'), 49.9, -97.0, 230.5);`)

	// empty altitude renders as the NULL literal
	assert.Contains(t, out, "'2024-01-01T16:01:00+00:00'")
	assert.Contains(t, out, "-97.0, NULL);")

	// one commit per record, inside a single anonymous block
	assert.Equal(t, 2, strings.Count(out, "COMMIT;"))
	assert.Contains(t, out, "BEGIN\n")
	assert.Contains(t, out, "END;\n/\n")
	assert.Contains(t, out, "-- Total records: 2")
	assert.Contains(t, out, "-- Generated from coordinates.csv")
	assert.Contains(t, out, "SELECT COUNT(*) as total_records FROM GPS_COORDINATES;")
}

func TestWriteBatchInserts(t *testing.T) {
	// 5 rows with batch size 2 must produce batches of 2, 2 and 1
	outPath := filepath.Join(t.TempDir(), BatchInsertFile)

	g := &Generator{BatchSize: 2}

	n, err := g.WriteBatchInserts(fixtureEntries(5), "coordinates.csv", outPath)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)

	assert.Equal(t, 3, strings.Count(out, "INSERT INTO GPS_COORDINATES"))
	assert.Equal(t, 3, strings.Count(out, "COMMIT;"))
	assert.Contains(t, out, "-- Batch 1 (2 records)")
	assert.Contains(t, out, "-- Batch 2 (2 records)")
	assert.Contains(t, out, "-- Batch 3 (1 records)")
	assert.Contains(t, out, "-- Batch size: 2")

	// row tuples keep the Z form and the same quoting/null rules as mode A
	assert.Contains(t, out, "('2024-01-01T16:00:00Z', 49.9, -97.0, 230.5)")
	assert.Contains(t, out, "('2024-01-01T16:01:00Z', 49.9, -97.0, NULL)")
	assert.Contains(t, out, "SELECT TO_TIMESTAMP_TZ(col1, 'YYYY-MM-DDTHH24:MI:SSXFF TZR'), col2, col3, col4 FROM (")
	assert.Contains(t, out, "SELECT COUNT(*) as total_records FROM GPS_COORDINATES;")
}

func TestWriteBatchInserts_DefaultBatchSize(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), BatchInsertFile)

	g := &Generator{}

	_, err := g.WriteBatchInserts(fixtureEntries(3), "coordinates.csv", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	assert.Contains(t, string(data), "-- Batch size: 1000")
	assert.Equal(t, 1, strings.Count(string(data), "INSERT INTO GPS_COORDINATES"))
}

func TestWriteInserts_FromCSV(t *testing.T) {
	// entries that came through the CSV reader render exactly like entries
	// built in memory
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "coordinates.csv")
	require.NoError(t, coords.WriteCSV(csvPath, fixtureEntries(2)))

	entries, err := coords.ReadCSV(csvPath)
	require.NoError(t, err)

	fromCSV := filepath.Join(dir, "from_csv.sql")
	fromMemory := filepath.Join(dir, "from_memory.sql")

	g := &Generator{}

	_, err = g.WriteInserts(entries, "coordinates.csv", fromCSV)
	require.NoError(t, err)

	_, err = g.WriteInserts(fixtureEntries(2), "coordinates.csv", fromMemory)
	require.NoError(t, err)

	a, err := os.ReadFile(fromCSV)
	require.NoError(t, err)

	b, err := os.ReadFile(fromMemory)
	require.NoError(t, err)

	assert.Equal(t, string(b), string(a))
}

func TestWriteInserts_NoEntries(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), InsertFile)

	g := &Generator{}

	n, err := g.WriteInserts(nil, "coordinates.csv", outPath)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- Total records: 0")
}

func TestWriteInserts_UnwritablePath(t *testing.T) {
	g := &Generator{}

	_, err := g.WriteInserts(fixtureEntries(1), "coordinates.csv",
		filepath.Join(t.TempDir(), "missing", InsertFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating sql file")
}
