// Package lookup maps GTFS route_type codes to human descriptions and to
// the maximum plausible speed for that mode. A built-in snapshot covers the
// base and extended schemas; Fetch can refresh descriptions from a published
// lookup, falling back to the snapshot when the network is unavailable.
package lookup

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry is one route_type row of the lookup table.
type Entry struct {
	Code        int
	Description string
	MaxSpeedKMH float64
}

// DefaultMaxSpeedKMH applies to route_type codes with no entry.
const DefaultMaxSpeedKMH = 200

// snapshot is the local fallback lookup: the base GTFS schema plus the
// extended route_type proposal, with a plausible top speed per mode.
var snapshot = []Entry{
	{0, "Tram, Streetcar, Light rail", 100},
	{1, "Subway, Metro", 120},
	{2, "Rail", 320},
	{3, "Bus", 150},
	{4, "Ferry", 80},
	{5, "Cable tram", 30},
	{6, "Aerial lift, suspended cable car", 50},
	{7, "Funicular", 50},
	{11, "Trolleybus", 150},
	{12, "Monorail", 120},
	{100, "Railway Service", 320},
	{101, "High Speed Rail Service", 400},
	{102, "Long Distance Trains", 320},
	{109, "Suburban Railway", 160},
	{200, "Coach Service", 150},
	{400, "Urban Railway Service", 120},
	{700, "Bus Service", 150},
	{900, "Tram Service", 100},
	{1000, "Water Transport Service", 80},
	{1100, "Air Service", 1000},
	{1300, "Aerial Lift Service", 50},
	{1400, "Funicular Service", 50},
	{1500, "Taxi Service", 150},
	{1700, "Miscellaneous Service", DefaultMaxSpeedKMH},
}

// Table resolves route_type codes to descriptions and speed thresholds.
type Table struct {
	entries      map[int]Entry
	defaultSpeed float64
}

// Default returns a table backed by the local snapshot.
func Default() *Table {
	t := &Table{entries: make(map[int]Entry, len(snapshot)), defaultSpeed: DefaultMaxSpeedKMH}
	for _, e := range snapshot {
		t.entries[e.Code] = e
	}
	return t
}

// Description returns the human description for a route_type code.
func (t *Table) Description(code int) string {
	if e, ok := t.entries[code]; ok {
		return e.Description
	}
	return fmt.Sprintf("Unknown route_type %d", code)
}

// MaxSpeedKMH returns the maximum plausible speed for a route_type code,
// falling back to the table default for unmapped codes.
func (t *Table) MaxSpeedKMH(code int) float64 {
	if e, ok := t.entries[code]; ok {
		return e.MaxSpeedKMH
	}
	return t.defaultSpeed
}

// Override replaces the speed threshold for one route_type code.
func (t *Table) Override(code int, maxSpeedKMH float64) {
	e, ok := t.entries[code]
	if !ok {
		e = Entry{Code: code, Description: fmt.Sprintf("Unknown route_type %d", code), MaxSpeedKMH: maxSpeedKMH}
	}
	e.MaxSpeedKMH = maxSpeedKMH
	t.entries[code] = e
}

// SetDefaultMaxSpeedKMH replaces the threshold used for unmapped codes.
func (t *Table) SetDefaultMaxSpeedKMH(v float64) { t.defaultSpeed = v }

// Fetch retrieves a route_type,description CSV from url and merges the
// descriptions over the snapshot. Speed thresholds always come from the
// snapshot or explicit overrides.
func Fetch(ctx context.Context, url string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch route_type lookup: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return parseLookupCSV(resp.Body)
}

// FetchOrDefault is Fetch with the local snapshot as fallback; failures are
// logged, never fatal.
func FetchOrDefault(ctx context.Context, url string) *Table {
	if url == "" {
		return Default()
	}
	t, err := Fetch(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("Route_type lookup unavailable, using local snapshot")
		return Default()
	}
	return t
}

func parseLookupCSV(r io.Reader) (*Table, error) {
	t := Default()
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse route_type lookup: %w", err)
	}
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("route_type lookup row %d: bad code %q", i, row[0])
		}
		e, ok := t.entries[code]
		if !ok {
			e = Entry{Code: code, MaxSpeedKMH: t.defaultSpeed}
		}
		e.Description = strings.TrimSpace(row[1])
		t.entries[code] = e
	}
	return t, nil
}
