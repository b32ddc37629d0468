// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package coords defines the canonical coordinate entry and the CSV format
// shared by the extraction and SQL generation stages.
package coords

import (
	"strconv"
	"strings"
	"time"

	"tracklog/spatial"
)

// DatetimeLayout is the canonical serialization of a coordinate timestamp:
// ISO-8601 in UTC with second precision and a literal Z marker. Lexicographic
// order on this layout is chronological order.
const DatetimeLayout = "2006-01-02T15:04:05Z"

// Coordinate is the canonical output unit of the pipeline: a UTC timestamp,
// a position, and an optional altitude in meters. Entries are never mutated
// after construction.
type Coordinate struct {
	Time     time.Time     `json:"time"`
	Point    spatial.Point `json:"point"`
	Altitude *float64      `json:"altitude,omitempty"`
}

// Datetime returns the canonical datetime string for the entry.
func (c *Coordinate) Datetime() string {
	return c.Time.UTC().Format(DatetimeLayout)
}

// Key identifies a coordinate entry for deduplication purposes.
type Key struct {
	Datetime string
	Lat      float64
	Lng      float64
}

// DedupKey returns the (datetime, latitude, longitude) tuple that makes an
// entry unique in the output. Altitude is deliberately excluded: two records
// that differ only in altitude are duplicates, and the first one seen wins.
func (c *Coordinate) DedupKey() Key {
	return Key{
		Datetime: c.Datetime(),
		Lat:      c.Point.Lat,
		Lng:      c.Point.Lng,
	}
}

// FormatFloat renders a float with the smallest number of digits that
// round-trips, keeping a decimal point so that whole-degree values read as
// decimals ("-97.0", never "-97").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
