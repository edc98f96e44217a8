package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/gtfs"
)

// Which selects the counted entity.
type Which string

const (
	WhichTrips  Which = "trips"
	WhichRoutes Which = "routes"
)

// DatedRow is one per-date per-route_type count, pre-summary.
type DatedRow struct {
	Date      gtfs.Date `json:"date"`
	RouteType int       `json:"route_type"`
	Count     int       `json:"count"`
}

// DaySummary is one weekday-level summary value produced by a summary
// operation over the dated rows.
type DaySummary struct {
	Day       string  `json:"day"`
	RouteType int     `json:"route_type"`
	Op        string  `json:"op"`
	Value     float64 `json:"value"`
}

// summaryOps is the allow-list of aggregation operations. Anything outside
// it is a configuration error.
var summaryOps = map[string]func(stats.Float64Data) (float64, error){
	"min":    stats.Min,
	"max":    stats.Max,
	"mean":   stats.Mean,
	"median": stats.Median,
}

// DefaultOps is the default summary operation set, in output order.
var DefaultOps = []string{"min", "max", "mean", "median"}

// Options controls Aggregate.
type Options struct {
	// Which selects trip counts or distinct-route counts.
	Which Which
	// ToDays groups the dated rows by weekday and applies Ops.
	ToDays bool
	// Ops are the summary operations; defaults to DefaultOps.
	Ops []string
	// SortByRouteType orders output by route_type first.
	SortByRouteType bool
}

func (o *Options) validate() error {
	switch o.Which {
	case WhichTrips, WhichRoutes:
	default:
		return assess.NewConfigurationError("which", "expected %q or %q, got %q", WhichTrips, WhichRoutes, o.Which)
	}
	if len(o.Ops) == 0 {
		o.Ops = DefaultOps
	}
	for _, op := range o.Ops {
		if _, ok := summaryOps[op]; !ok {
			return assess.NewConfigurationError("summ_ops", "unknown operation %q", op)
		}
	}
	return nil
}

// Result carries the per-date table and, when requested, its weekday
// summary.
type Result struct {
	Dated []DatedRow
	Days  []DaySummary
}

// Aggregate joins each date's active services to trips and routes and
// produces per-date per-route_type counts, optionally compacted into a
// weekday summary. Parameters are checked before any table is touched.
func Aggregate(f *gtfs.Feed, expanded map[gtfs.Date]ServiceSet, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	dated := Dated(f, expanded, opts.Which)
	SortDated(dated, opts.SortByRouteType)
	result := &Result{Dated: dated}
	if opts.ToDays {
		days, err := ToDaySummary(dated, opts.Ops, opts.SortByRouteType)
		if err != nil {
			return nil, err
		}
		result.Days = days
	}
	return result, nil
}

// Dated builds the per-date per-route_type counts for one feed. For
// WhichRoutes, routes serving multiple trips on a date count once.
func Dated(f *gtfs.Feed, expanded map[gtfs.Date]ServiceSet, which Which) []DatedRow {
	routes := f.RoutesByID()
	type tripInfo struct {
		routeID   string
		routeType int
	}
	byService := map[string][]tripInfo{}
	for _, t := range f.Trips {
		route, ok := routes[t.RouteID]
		if !ok {
			continue
		}
		byService[t.ServiceID] = append(byService[t.ServiceID], tripInfo{t.RouteID, route.Type})
	}

	var rows []DatedRow
	for date, services := range expanded {
		tripCounts := map[int]int{}
		routeSets := map[int]map[string]struct{}{}
		for service := range services {
			for _, trip := range byService[service] {
				tripCounts[trip.routeType]++
				if routeSets[trip.routeType] == nil {
					routeSets[trip.routeType] = map[string]struct{}{}
				}
				routeSets[trip.routeType][trip.routeID] = struct{}{}
			}
		}
		for routeType, n := range tripCounts {
			count := n
			if which == WhichRoutes {
				count = len(routeSets[routeType])
			}
			rows = append(rows, DatedRow{Date: date, RouteType: routeType, Count: count})
		}
	}
	return rows
}

// SortDated orders rows by date then route_type, or by route_type first.
func SortDated(rows []DatedRow, byRouteType bool) {
	sort.Slice(rows, func(i, j int) bool {
		if byRouteType && rows[i].RouteType != rows[j].RouteType {
			return rows[i].RouteType < rows[j].RouteType
		}
		if !rows[i].Date.Equal(rows[j].Date.Time) {
			return rows[i].Date.Before(rows[j].Date.Time)
		}
		if byRouteType {
			return false
		}
		return rows[i].RouteType < rows[j].RouteType
	})
}

var dayOrder = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// ToDaySummary groups dated rows by weekday name and applies the summary
// operations per (weekday, route_type). Operations outside the allow-list
// are rejected before any grouping happens.
func ToDaySummary(rows []DatedRow, ops []string, sortByRouteType bool) ([]DaySummary, error) {
	if len(ops) == 0 {
		ops = DefaultOps
	}
	for _, op := range ops {
		if _, ok := summaryOps[op]; !ok {
			return nil, assess.NewConfigurationError("summ_ops", "unknown operation %q", op)
		}
	}

	type group struct {
		day       string
		routeType int
	}
	samples := map[group][]float64{}
	for _, r := range rows {
		g := group{dayName(r.Date.Weekday()), r.RouteType}
		samples[g] = append(samples[g], float64(r.Count))
	}

	groups := make([]group, 0, len(samples))
	for g := range samples {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if sortByRouteType && groups[i].routeType != groups[j].routeType {
			return groups[i].routeType < groups[j].routeType
		}
		if dayOrder[groups[i].day] != dayOrder[groups[j].day] {
			return dayOrder[groups[i].day] < dayOrder[groups[j].day]
		}
		return groups[i].routeType < groups[j].routeType
	})

	var out []DaySummary
	for _, g := range groups {
		data := stats.Float64Data(samples[g])
		for _, op := range ops {
			value, err := summaryOps[op](data)
			if err != nil {
				return nil, err
			}
			out = append(out, DaySummary{Day: g.day, RouteType: g.routeType, Op: op, Value: value})
		}
	}
	return out, nil
}

func dayName(d time.Weekday) string { return strings.ToLower(d.String()) }
