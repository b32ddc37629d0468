// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"tracklog/coords"
	"tracklog/spatial"
)

// ExtractMetrics tracks statistics about the extraction process.
type ExtractMetrics struct {
	RawSignals int // raw signals seen
	PathPoints int // timeline path points seen
	Skipped    int // records dropped because a field failed to parse
	Duplicates int // records removed by the (datetime, lat, lng) dedup key
	Written    int // entries written to the CSV
}

// Merge combines two ExtractMetrics.
func (m *ExtractMetrics) Merge(o *ExtractMetrics) *ExtractMetrics {
	m.RawSignals += o.RawSignals
	m.PathPoints += o.PathPoints
	m.Skipped += o.Skipped
	m.Duplicates += o.Duplicates
	m.Written += o.Written

	return m
}

// Extractor converts a Timeline export into a deduplicated, time-sorted
// coordinates CSV.
type Extractor struct {
	Metrics ExtractMetrics
}

// ExtractFile reads the Timeline JSON document at jsonPath and writes the
// coordinates CSV to csvPath. It returns the number of entries written.
// A missing or unparseable document is an error; individual records with
// malformed fields are skipped.
func (e *Extractor) ExtractFile(jsonPath, csvPath string) (int, error) {
	data, err := os.ReadFile(filepath.Clean(jsonPath))
	if err != nil {
		return 0, fmt.Errorf("reading timeline document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parsing timeline document: %w", err)
	}

	entries := e.Extract(&doc)

	if err := coords.WriteCSV(csvPath, entries); err != nil {
		return 0, err
	}

	e.Metrics.Written = len(entries)

	return len(entries), nil
}

// dedupSink accumulates entries, dropping dedup-key collisions.
type dedupSink struct {
	seen    map[coords.Key]struct{}
	entries []coords.Coordinate
}

func (s *dedupSink) add(m *ExtractMetrics, entry coords.Coordinate) {
	key := entry.DedupKey()
	if _, ok := s.seen[key]; ok {
		m.Duplicates++

		return
	}

	s.seen[key] = struct{}{}
	s.entries = append(s.entries, entry)
}

// Extract walks the document's raw signals and semantic segments, normalizes
// each record into a coordinate entry, deduplicates, and sorts ascending by
// datetime. Traversal order only matters for tie-breaks: the sort is stable,
// so on a dedup-key collision the first record seen wins. The two collections
// are processed as separate phases whose metrics are merged into the total.
func (e *Extractor) Extract(doc *Document) []coords.Coordinate {
	sink := &dedupSink{
		seen:    make(map[coords.Key]struct{}),
		entries: make([]coords.Coordinate, 0, len(doc.RawSignals)),
	}

	signals := e.extractRawSignals(doc, sink)
	segments := e.extractSegments(doc, sink)
	e.Metrics.Merge(&signals).Merge(&segments)

	slices.SortStableFunc(sink.entries, func(a, b coords.Coordinate) int {
		return a.Time.Compare(b.Time)
	})

	return sink.entries
}

func (e *Extractor) extractRawSignals(doc *Document, sink *dedupSink) ExtractMetrics {
	var m ExtractMetrics

	log.Printf("Processing %d raw signals", len(doc.RawSignals))

	bar := newBar(len(doc.RawSignals), "Raw signals")

	for i := range doc.RawSignals {
		m.RawSignals++

		if entry, ok := fromRawSignal(&m, &doc.RawSignals[i]); ok {
			sink.add(&m, entry)
		}

		barAdd(bar)
	}

	return m
}

func (e *Extractor) extractSegments(doc *Document, sink *dedupSink) ExtractMetrics {
	var m ExtractMetrics

	log.Printf("Processing %d semantic segments", len(doc.SemanticSegments))

	bar := newBar(len(doc.SemanticSegments), "Semantic segments")

	for i := range doc.SemanticSegments {
		for j := range doc.SemanticSegments[i].TimelinePath {
			m.PathPoints++

			if entry, ok := fromTimelinePoint(&m, &doc.SemanticSegments[i].TimelinePath[j]); ok {
				sink.add(&m, entry)
			}
		}

		barAdd(bar)
	}

	return m
}

// A raw signal yields at most one entry, carrying the optional altitude.
func fromRawSignal(m *ExtractMetrics, sig *RawSignal) (coords.Coordinate, bool) {
	if sig.Position == nil || sig.Position.LatLng == "" || sig.Position.Timestamp == "" {
		return coords.Coordinate{}, false
	}

	point, t, ok := parseRecord(m, sig.Position.LatLng, sig.Position.Timestamp)
	if !ok {
		return coords.Coordinate{}, false
	}

	return coords.Coordinate{
		Time:     t,
		Point:    point,
		Altitude: parseAltitude(sig.Altitude),
	}, true
}

// A timeline path point never carries an altitude.
func fromTimelinePoint(m *ExtractMetrics, p *TimelinePoint) (coords.Coordinate, bool) {
	if p.Point == "" || p.Time == "" {
		return coords.Coordinate{}, false
	}

	point, t, ok := parseRecord(m, p.Point, p.Time)
	if !ok {
		return coords.Coordinate{}, false
	}

	return coords.Coordinate{Time: t, Point: point}, true
}

// parseRecord applies the shared drop-on-parse-failure policy: a record is
// only emitted when both the position and the timestamp parse.
func parseRecord(m *ExtractMetrics, latLng, timestamp string) (spatial.Point, time.Time, bool) {
	point, err := spatial.ParseLatLng(latLng)
	if err != nil {
		m.Skipped++

		return spatial.Point{}, time.Time{}, false
	}

	t, err := normalizeTime(timestamp)
	if err != nil {
		log.Printf("Dropping record with unparseable timestamp %q: %v", timestamp, err)
		m.Skipped++

		return spatial.Point{}, time.Time{}, false
	}

	return point, t, true
}

func newBar(n int, description string) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func barAdd(bar *progressbar.ProgressBar) {
	if bar != nil {
		if err := bar.Add(1); err != nil {
			log.Printf("updating progress bar: %v", err)
		}
	}
}
