// Copyright 2025 The Tracklog Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadius = 6371e3 // meters

// ErrInvalidLatLng is returned when a coordinate string can't be parsed.
var ErrInvalidLatLng = errors.New("invalid coordinate pair")

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParseLatLng parses a coordinate pair written as two decimal numbers
// separated by a comma, each optionally suffixed with a degree sign,
// e.g. "49.9033985°, -97.0022461°".
func ParseLatLng(s string) (Point, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, "°", ""))

	lats, lngs, found := strings.Cut(cleaned, ",")
	if !found {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidLatLng, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(lats), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q: %w", ErrInvalidLatLng, s, err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(lngs), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %q: %w", ErrInvalidLatLng, s, err)
	}

	return Point{Lat: lat, Lng: lng}, nil
}

// String returns the point in WKT order, longitude first.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Scan implements the sql.Scanner interface for database deserialization.
func (p *Point) Scan(value interface{}) error {
	if value == nil {
		p.Lat, p.Lng = 0, 0

		return nil
	}

	switch v := value.(type) {
	case []byte:
		// The format from DuckDB is "POINT (lng lat)"
		_, err := fmt.Sscanf(string(v), "POINT (%f %f)", &p.Lng, &p.Lat)

		return err
	case map[string]interface{}:
		x, okX := v["x"].(float64)
		y, okY := v["y"].(float64)

		if !okX || !okY {
			return fmt.Errorf("spatial: invalid map for point: expected 'x' and 'y' float64 fields, got %+v", v)
		}

		p.Lng = x
		p.Lat = y

		return nil
	default:
		return fmt.Errorf("spatial: unsupported type for Point scan: %T", value)
	}
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
