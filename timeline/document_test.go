// Copyright 2025 The Tracklog Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"testing"
	"time"
)

func TestParseAltitude(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		none  bool
	}{
		{
			name:  "numeric",
			input: 253.7,
			want:  253.7,
		},
		{
			name:  "numeric zero",
			input: 0.0,
			want:  0,
		},
		{
			name:  "string with unit",
			input: "253.7 m",
			want:  253.7,
		},
		{
			name:  "bare numeric string",
			input: "18",
			want:  18,
		},
		{
			name:  "empty string",
			input: "",
			none:  true,
		},
		{
			name:  "non-numeric string",
			input: "unknown",
			none:  true,
		},
		{
			name:  "nil",
			input: nil,
			none:  true,
		},
		{
			name:  "unexpected type",
			input: true,
			none:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAltitude(tt.input)

			if tt.none {
				if got != nil {
					t.Fatalf("expected no altitude, got %f", *got)
				}

				return
			}

			if got == nil {
				t.Fatalf("expected %f, got none", tt.want)
			}

			if *got != tt.want {
				t.Fatalf("want %f, got %f", tt.want, *got)
			}
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "negative offset converts to utc",
			input: "2024-01-01T10:00:00-06:00",
			want:  time.Date(2024, time.January, 1, 16, 0, 0, 0, time.UTC),
		},
		{
			name:  "explicit z",
			input: "2024-01-01T10:00:00Z",
			want:  time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "positive offset",
			input: "2024-06-15T01:30:00+02:00",
			want:  time.Date(2024, time.June, 14, 23, 30, 0, 0, time.UTC),
		},
		{
			name:  "fractional seconds",
			input: "2024-01-01T10:00:00.500-06:00",
			want:  time.Date(2024, time.January, 1, 16, 0, 0, 500e6, time.UTC),
		},
		{
			name:    "missing offset",
			input:   "2024-01-01T10:00:00",
			wantErr: true,
		},
		{
			name:    "not a timestamp",
			input:   "yesterday",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeTime(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Fatalf("want %v, got %v", tt.want, got)
			}
		})
	}
}
