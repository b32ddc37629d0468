// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

// Package store loads coordinate entries into a local DuckDB database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/uber/h3-go/v4"

	"tracklog/coords"
)

// CoordinateRepository defines the database operations for coordinate entries.
type CoordinateRepository interface {
	// CreateSchema creates the GPS_COORDINATES table.
	CreateSchema() error
	// ReplaceAll replaces the table contents with the given entries.
	ReplaceAll(entries []coords.Coordinate) error
	// Entries returns the stored entries ordered by time.
	Entries() ([]coords.Coordinate, error)
	// Count returns the number of stored entries.
	Count() (int64, error)
}

type sqlCoordinateRepository struct {
	db *sql.DB
}

// NewSQLCoordinateRepository creates a repository backed by DuckDB.
func NewSQLCoordinateRepository(db *sql.DB) (CoordinateRepository, error) {
	// DuckDB needs to load the spatial extension
	_, err := db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return nil, err
	}

	return &sqlCoordinateRepository{db: db}, nil
}

func (r *sqlCoordinateRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS GPS_COORDINATES (
			datetime_utc TIMESTAMPTZ NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			altitude_meters DOUBLE,
			point POINT_2D,
			h3_res5 UBIGINT,
			h3_res6 UBIGINT,
			h3_res7 UBIGINT,
			h3_res8 UBIGINT
		);
	`)

	return err
}

// h3Resolutions are the cell resolutions indexed per entry. GPS track points
// are dense, so only neighborhood-to-block scale cells are kept.
var h3Resolutions = []int{5, 6, 7, 8}

func h3Cells(lat, lng float64) ([]uint64, error) {
	latLng := h3.NewLatLng(lat, lng)
	cells := make([]uint64, len(h3Resolutions))

	for i, res := range h3Resolutions {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("converting to h3 cell at res %d: %w", res, err)
		}

		cells[i] = uint64(cell)
	}

	return cells, nil
}

func (r *sqlCoordinateRepository) ReplaceAll(entries []coords.Coordinate) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Printf("failed to rollback transaction: %v", err)
		}
	}()

	// The CSV is the source of truth, so the load is truncate-and-insert.
	if _, err := tx.Exec("DELETE FROM GPS_COORDINATES"); err != nil {
		return fmt.Errorf("truncating table: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO GPS_COORDINATES (
			datetime_utc, latitude, longitude, altitude_meters,
			point, h3_res5, h3_res6, h3_res7, h3_res8
		) VALUES (?, ?, ?, ?, ST_Point(?, ?), ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]

		var altitude sql.NullFloat64
		if e.Altitude != nil {
			altitude.Float64 = *e.Altitude
			altitude.Valid = true
		}

		cells, err := h3Cells(e.Point.Lat, e.Point.Lng)
		if err != nil {
			return fmt.Errorf("indexing entry %s: %w", e.Datetime(), err)
		}

		_, err = stmt.Exec(
			e.Time,
			e.Point.Lat,
			e.Point.Lng,
			altitude,
			e.Point.Lng,
			e.Point.Lat,
			cells[0],
			cells[1],
			cells[2],
			cells[3],
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s at %s: %w", e.Datetime(), e.Point, err)
		}
	}

	return tx.Commit()
}

func (r *sqlCoordinateRepository) Entries() (_ []coords.Coordinate, err error) {
	// The position comes back from the stored POINT_2D column, not the
	// scalar lat/lng, so a load/read cycle exercises the point round-trip.
	rows, err := r.db.Query(`
		SELECT datetime_utc, point, altitude_meters
		FROM GPS_COORDINATES
		ORDER BY datetime_utc
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}

	defer func() {
		if cerr := rows.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing rows: %w", cerr))
		}
	}()

	var entries []coords.Coordinate

	for rows.Next() {
		var e coords.Coordinate

		var altitude sql.NullFloat64

		if err := rows.Scan(&e.Time, &e.Point, &altitude); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		e.Time = e.Time.UTC()

		if altitude.Valid {
			alt := altitude.Float64
			e.Altitude = &alt
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

func (r *sqlCoordinateRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM GPS_COORDINATES").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}

	return n, nil
}
