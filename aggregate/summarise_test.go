package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/gtfs"
)

// summaryFeed has two bus routes and one rail route. Service A runs two bus
// trips on different routes plus a rail trip; service B runs one more trip
// on the first bus route.
func summaryFeed() *gtfs.Feed {
	return &gtfs.Feed{
		Name: "summary",
		Routes: []gtfs.Route{
			{ID: "B1", Type: 3},
			{ID: "B2", Type: 3},
			{ID: "RL", Type: 2},
		},
		Trips: []gtfs.Trip{
			{ID: "T1", RouteID: "B1", ServiceID: "A"},
			{ID: "T2", RouteID: "B2", ServiceID: "A"},
			{ID: "T3", RouteID: "RL", ServiceID: "A"},
			{ID: "T4", RouteID: "B1", ServiceID: "B"},
		},
	}
}

func TestDatedCountsTripsAndRoutes(t *testing.T) {
	f := summaryFeed()
	mon := date(2023, time.June, 5)
	tue := date(2023, time.June, 6)
	expanded := map[gtfs.Date]ServiceSet{
		mon: {"A": {}, "B": {}},
		tue: {"B": {}},
	}

	trips := Dated(f, expanded, WhichTrips)
	SortDated(trips, false)
	assert.Equal(t, []DatedRow{
		{Date: mon, RouteType: 2, Count: 1},
		{Date: mon, RouteType: 3, Count: 3},
		{Date: tue, RouteType: 3, Count: 1},
	}, trips)

	// B1 carries two trips on Monday but counts once as a route.
	routes := Dated(f, expanded, WhichRoutes)
	SortDated(routes, false)
	assert.Equal(t, []DatedRow{
		{Date: mon, RouteType: 2, Count: 1},
		{Date: mon, RouteType: 3, Count: 2},
		{Date: tue, RouteType: 3, Count: 1},
	}, routes)
}

func TestAggregateRejectsBadOptions(t *testing.T) {
	f := summaryFeed()
	expanded := map[gtfs.Date]ServiceSet{date(2023, time.June, 5): {"A": {}}}

	_, err := Aggregate(f, expanded, Options{Which: "stops"})
	var cfg *assess.ConfigurationError
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, "which", cfg.Param)

	_, err = Aggregate(f, expanded, Options{Which: WhichTrips, ToDays: true, Ops: []string{"mode"}})
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, "summ_ops", cfg.Param)
}

func TestSortDatedByRouteType(t *testing.T) {
	mon := date(2023, time.June, 5)
	tue := date(2023, time.June, 6)
	rows := []DatedRow{
		{Date: tue, RouteType: 3, Count: 1},
		{Date: mon, RouteType: 3, Count: 2},
		{Date: mon, RouteType: 2, Count: 3},
	}
	SortDated(rows, true)
	assert.Equal(t, []DatedRow{
		{Date: mon, RouteType: 2, Count: 3},
		{Date: mon, RouteType: 3, Count: 2},
		{Date: tue, RouteType: 3, Count: 1},
	}, rows)
}

func TestToDaySummary(t *testing.T) {
	// Two Mondays with bus counts 10 and 20, one Tuesday with 5.
	rows := []DatedRow{
		{Date: date(2023, time.June, 5), RouteType: 3, Count: 10},
		{Date: date(2023, time.June, 12), RouteType: 3, Count: 20},
		{Date: date(2023, time.June, 6), RouteType: 3, Count: 5},
	}

	days, err := ToDaySummary(rows, []string{"min", "max", "mean", "median"}, false)
	require.NoError(t, err)
	require.Len(t, days, 8)

	assert.Equal(t, DaySummary{Day: "monday", RouteType: 3, Op: "min", Value: 10}, days[0])
	assert.Equal(t, DaySummary{Day: "monday", RouteType: 3, Op: "max", Value: 20}, days[1])
	assert.Equal(t, DaySummary{Day: "monday", RouteType: 3, Op: "mean", Value: 15}, days[2])
	assert.Equal(t, DaySummary{Day: "monday", RouteType: 3, Op: "median", Value: 15}, days[3])
	assert.Equal(t, "tuesday", days[4].Day)
	assert.Equal(t, float64(5), days[4].Value)
}

func TestToDaySummaryWeekdayOrder(t *testing.T) {
	// Sunday sorts last even though it is first in the input.
	rows := []DatedRow{
		{Date: date(2023, time.June, 11), RouteType: 3, Count: 1},
		{Date: date(2023, time.June, 9), RouteType: 3, Count: 2},
	}
	days, err := ToDaySummary(rows, []string{"min"}, false)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "friday", days[0].Day)
	assert.Equal(t, "sunday", days[1].Day)
}

func TestAggregateEndToEnd(t *testing.T) {
	f := summaryFeed()
	expanded := map[gtfs.Date]ServiceSet{
		date(2023, time.June, 5): {"A": {}},
	}

	result, err := Aggregate(f, expanded, Options{Which: WhichTrips, ToDays: true})
	require.NoError(t, err)
	require.Len(t, result.Dated, 2)
	// Default ops: min, max, mean, median for each of the two groups.
	assert.Len(t, result.Days, 8)
}
