// Package formatter renders ledgers and aggregation tables as JSON or CSV
// for reporting consumers. Rendered output is a read-only view; nothing
// here mutates the underlying tables.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/transit-analytics/gtfs-assess/aggregate"
	"github.com/transit-analytics/gtfs-assess/validate"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a user-supplied format name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Ledger renders a ledger table in the requested format.
func Ledger(rows []validate.TableRow, format Format) ([]byte, error) {
	if format == FormatJSON {
		return marshalJSON(rows)
	}
	records := [][]string{{"type", "message", "table", "rows"}}
	for _, r := range rows {
		records = append(records, []string{r.Type, r.Message, r.Table, joinInts(r.Rows)})
	}
	return writeCSV(records)
}

// Dated renders per-date per-route_type counts in the requested format.
func Dated(rows []aggregate.DatedRow, format Format) ([]byte, error) {
	if format == FormatJSON {
		return marshalJSON(rows)
	}
	records := [][]string{{"date", "route_type", "count"}}
	for _, r := range rows {
		records = append(records, []string{r.Date.String(), strconv.Itoa(r.RouteType), strconv.Itoa(r.Count)})
	}
	return writeCSV(records)
}

// Days renders weekday summary rows in the requested format.
func Days(rows []aggregate.DaySummary, format Format) ([]byte, error) {
	if format == FormatJSON {
		return marshalJSON(rows)
	}
	records := [][]string{{"day", "route_type", "op", "value"}}
	for _, r := range rows {
		records = append(records, []string{
			r.Day,
			strconv.Itoa(r.RouteType),
			r.Op,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
		})
	}
	return writeCSV(records)
}

func marshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
