// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package timeline extracts GPS coordinates from Google Timeline exports.
package timeline

import (
	"strconv"
	"strings"
	"time"
)

// Document models the two collections of a Timeline export that carry
// positions. Everything else in the export is ignored.
type Document struct {
	RawSignals       []RawSignal       `json:"rawSignals"`
	SemanticSegments []SemanticSegment `json:"semanticSegments"`
}

// RawSignal is a single low-level positioning sample.
type RawSignal struct {
	Position *Position `json:"position,omitempty"`
	// Altitude comes either as a number or as a string with a unit
	// suffix like "253.2 m".
	Altitude any `json:"altitude,omitempty"`
}

// Position is the geographic payload of a raw signal.
type Position struct {
	LatLng         string `json:"LatLng"`
	Timestamp      string `json:"timestamp"`
	AccuracyMeters any    `json:"accuracyMeters,omitempty"`
}

// SemanticSegment is an inferred movement segment containing a path of
// timestamped points.
type SemanticSegment struct {
	TimelinePath []TimelinePoint `json:"timelinePath"`
}

// TimelinePoint is one point of a segment's path.
type TimelinePoint struct {
	Point string `json:"point"`
	Time  string `json:"time"`
}

// parseAltitude extracts an altitude in meters from a raw signal value.
// Numbers are used directly; for strings the first whitespace-delimited
// token is parsed. Anything else yields no altitude.
func parseAltitude(v any) *float64 {
	switch alt := v.(type) {
	case float64:
		return &alt
	case string:
		fields := strings.Fields(alt)
		if len(fields) == 0 {
			return nil
		}

		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil
		}

		return &f
	default:
		return nil
	}
}

// normalizeTime parses an offset-aware ISO-8601 timestamp (a trailing Z is an
// explicit +00:00 offset) and converts it to UTC.
func normalizeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}

	return t.UTC(), nil
}
