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

func date(y int, m time.Month, d int) gtfs.Date { return gtfs.NewDate(y, m, d) }

func TestExpandCalendarWeeklyPattern(t *testing.T) {
	// Mon 2023-06-05 to Sun 2023-06-11, weekdays only.
	f := &gtfs.Feed{
		Name: "weekly",
		Calendar: []gtfs.Calendar{{
			ServiceID: "A",
			Monday:    1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1,
			StartDate: date(2023, time.June, 5),
			EndDate:   date(2023, time.June, 11),
		}},
	}

	expanded, err := ExpandCalendar(f)
	require.NoError(t, err)

	// Every date in the bound has an entry, active or not.
	require.Len(t, expanded, 7)
	assert.Contains(t, expanded[date(2023, time.June, 5)], "A")
	assert.Contains(t, expanded[date(2023, time.June, 9)], "A")
	assert.Empty(t, expanded[date(2023, time.June, 10)])
	assert.Empty(t, expanded[date(2023, time.June, 11)])
}

func TestExpandCalendarExceptionsWin(t *testing.T) {
	f := &gtfs.Feed{
		Name: "exceptions",
		Calendar: []gtfs.Calendar{{
			ServiceID: "A",
			Monday:    1, Tuesday: 1, Wednesday: 1, Thursday: 1, Friday: 1,
			StartDate: date(2023, time.June, 5),
			EndDate:   date(2023, time.June, 11),
		}},
		CalendarDates: []gtfs.CalendarDate{
			// A bank holiday Monday off, a special Saturday on.
			{ServiceID: "A", Date: date(2023, time.June, 5), ExceptionType: gtfs.ExceptionRemove},
			{ServiceID: "A", Date: date(2023, time.June, 10), ExceptionType: gtfs.ExceptionAdd},
		},
	}

	expanded, err := ExpandCalendar(f)
	require.NoError(t, err)
	assert.Empty(t, expanded[date(2023, time.June, 5)])
	assert.Contains(t, expanded[date(2023, time.June, 10)], "A")
}

func TestExpandCalendarBoundGrowsToExceptions(t *testing.T) {
	// An add exception outside the weekly range stretches the bound, and
	// the gap dates in between still get entries.
	f := &gtfs.Feed{
		Name: "stretch",
		Calendar: []gtfs.Calendar{{
			ServiceID: "A", Monday: 1,
			StartDate: date(2023, time.June, 5),
			EndDate:   date(2023, time.June, 5),
		}},
		CalendarDates: []gtfs.CalendarDate{
			{ServiceID: "B", Date: date(2023, time.June, 12), ExceptionType: gtfs.ExceptionAdd},
		},
	}

	expanded, err := ExpandCalendar(f)
	require.NoError(t, err)
	require.Len(t, expanded, 8)
	assert.Contains(t, expanded[date(2023, time.June, 5)], "A")
	// 2023-06-12 is a Monday but A's range ended a week earlier.
	assert.NotContains(t, expanded[date(2023, time.June, 12)], "A")
	assert.Contains(t, expanded[date(2023, time.June, 12)], "B")
	assert.Empty(t, expanded[date(2023, time.June, 8)])
}

func TestExpandCalendarBothTablesEmpty(t *testing.T) {
	f := &gtfs.Feed{Name: "bare"}
	_, err := ExpandCalendar(f)
	require.Error(t, err)
	var structural *assess.StructuralError
	require.True(t, errors.As(err, &structural))
	assert.Equal(t, "bare", structural.Feed)
}

func TestSynthesizeCalendarWeekdayService(t *testing.T) {
	// Service 740 runs Mon 2023-07-31 through Fri 2023-08-04 as add
	// exceptions only; the reconstructed pattern is weekdays-only over
	// that bound.
	var dates []gtfs.CalendarDate
	for d := date(2023, time.July, 31); !d.After(date(2023, time.August, 4).Time); d = d.Next() {
		dates = append(dates, gtfs.CalendarDate{ServiceID: "740", Date: d, ExceptionType: gtfs.ExceptionAdd})
	}

	calendars := SynthesizeCalendar(dates)
	require.Len(t, calendars, 1)
	c := calendars[0]
	assert.Equal(t, "740", c.ServiceID)
	assert.Equal(t, date(2023, time.July, 31), c.StartDate)
	assert.Equal(t, date(2023, time.August, 4), c.EndDate)
	assert.Equal(t, 1, c.Monday)
	assert.Equal(t, 1, c.Tuesday)
	assert.Equal(t, 1, c.Wednesday)
	assert.Equal(t, 1, c.Thursday)
	assert.Equal(t, 1, c.Friday)
	assert.Equal(t, 0, c.Saturday)
	assert.Equal(t, 0, c.Sunday)
}

func TestSynthesizeCalendarUnconfirmedWeekdayStaysOff(t *testing.T) {
	// Two Mondays in the bound but only one add: the Monday flag stays
	// off because not every occurrence is confirmed.
	dates := []gtfs.CalendarDate{
		{ServiceID: "S", Date: date(2023, time.June, 5), ExceptionType: gtfs.ExceptionAdd},
		{ServiceID: "S", Date: date(2023, time.June, 12), ExceptionType: gtfs.ExceptionRemove},
	}

	calendars := SynthesizeCalendar(dates)
	require.Len(t, calendars, 1)
	assert.Equal(t, 0, calendars[0].Monday)
}

func TestSynthesizeCalendarSortedByService(t *testing.T) {
	dates := []gtfs.CalendarDate{
		{ServiceID: "b", Date: date(2023, time.June, 5), ExceptionType: gtfs.ExceptionAdd},
		{ServiceID: "a", Date: date(2023, time.June, 6), ExceptionType: gtfs.ExceptionAdd},
	}
	calendars := SynthesizeCalendar(dates)
	require.Len(t, calendars, 2)
	assert.Equal(t, "a", calendars[0].ServiceID)
	assert.Equal(t, "b", calendars[1].ServiceID)
}

func TestExpandCalendarSynthesizesWhenCalendarMissing(t *testing.T) {
	f := &gtfs.Feed{
		Name: "exceptions-only",
		CalendarDates: []gtfs.CalendarDate{
			{ServiceID: "740", Date: date(2023, time.July, 31), ExceptionType: gtfs.ExceptionAdd},
			{ServiceID: "740", Date: date(2023, time.August, 1), ExceptionType: gtfs.ExceptionAdd},
		},
	}

	expanded, err := ExpandCalendar(f)
	require.NoError(t, err)
	require.Len(t, expanded, 2)
	assert.Contains(t, expanded[date(2023, time.July, 31)], "740")
	assert.Contains(t, expanded[date(2023, time.August, 1)], "740")
}
