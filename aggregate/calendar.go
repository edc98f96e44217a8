package aggregate

import (
	"sort"
	"time"

	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/gtfs"
)

// ServiceSet is the set of service identifiers active on one date.
type ServiceSet map[string]struct{}

// ExpandCalendar expands a feed's service calendar into the active services
// for every date in the feed's closed [min, max] date bound. The bound is
// the union of the weekly-pattern ranges and the exception dates; every
// date in it has an entry, possibly empty.
//
// A feed with neither a populated calendar nor a populated calendar_dates
// table fails with a StructuralError. A feed with only calendar_dates gets
// an equivalent weekly pattern synthesized first (see SynthesizeCalendar).
func ExpandCalendar(f *gtfs.Feed) (map[gtfs.Date]ServiceSet, error) {
	calendars := f.Calendar
	if len(calendars) == 0 && len(f.CalendarDates) == 0 {
		return nil, assess.NewStructuralError(f.Name, "calendar and calendar_dates are both empty")
	}
	if len(calendars) == 0 {
		calendars = SynthesizeCalendar(f.CalendarDates)
	}

	var min, max gtfs.Date
	grow := func(d gtfs.Date) {
		if d.IsZero() {
			return
		}
		if min.IsZero() || d.Before(min.Time) {
			min = d
		}
		if max.IsZero() || d.After(max.Time) {
			max = d
		}
	}
	for _, c := range calendars {
		grow(c.StartDate)
		grow(c.EndDate)
	}
	for _, cd := range f.CalendarDates {
		grow(cd.Date)
	}
	if min.IsZero() {
		return nil, assess.NewStructuralError(f.Name, "no usable dates in calendar tables")
	}

	type exception struct {
		service string
		kind    int
	}
	exceptions := map[gtfs.Date][]exception{}
	for _, cd := range f.CalendarDates {
		exceptions[cd.Date] = append(exceptions[cd.Date], exception{cd.ServiceID, cd.ExceptionType})
	}

	expanded := map[gtfs.Date]ServiceSet{}
	for d := min; !d.After(max.Time); d = d.Next() {
		active := ServiceSet{}
		for _, c := range calendars {
			if c.Covers(d) && c.RunsOn(d.Weekday()) {
				active[c.ServiceID] = struct{}{}
			}
		}
		// Exceptions win over the weekly pattern in both directions.
		for _, ex := range exceptions[d] {
			switch ex.kind {
			case gtfs.ExceptionAdd:
				active[ex.service] = struct{}{}
			case gtfs.ExceptionRemove:
				delete(active, ex.service)
			}
		}
		expanded[d] = active
	}
	return expanded, nil
}

// SynthesizeCalendar reconstructs a weekly-pattern table from an exception
// table alone. Per service, the date bound is the min/max of its exception
// dates, and a weekday flag is set iff the weekday occurs at least once in
// the bound and every occurrence is an add exception with no remove on that
// date. This reconstruction is heuristic for sparse exception sets and is
// an explicit, tested contract.
func SynthesizeCalendar(dates []gtfs.CalendarDate) []gtfs.Calendar {
	type serviceDates struct {
		adds    map[gtfs.Date]bool
		removes map[gtfs.Date]bool
		min     gtfs.Date
		max     gtfs.Date
	}
	services := map[string]*serviceDates{}
	for _, cd := range dates {
		sd := services[cd.ServiceID]
		if sd == nil {
			sd = &serviceDates{adds: map[gtfs.Date]bool{}, removes: map[gtfs.Date]bool{}}
			services[cd.ServiceID] = sd
		}
		switch cd.ExceptionType {
		case gtfs.ExceptionAdd:
			sd.adds[cd.Date] = true
		case gtfs.ExceptionRemove:
			sd.removes[cd.Date] = true
		}
		if sd.min.IsZero() || cd.Date.Before(sd.min.Time) {
			sd.min = cd.Date
		}
		if sd.max.IsZero() || cd.Date.After(sd.max.Time) {
			sd.max = cd.Date
		}
	}

	ids := make([]string, 0, len(services))
	for id := range services {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var calendars []gtfs.Calendar
	for _, id := range ids {
		sd := services[id]
		c := gtfs.Calendar{ServiceID: id, StartDate: sd.min, EndDate: sd.max}
		occurrences := map[time.Weekday]int{}
		confirmed := map[time.Weekday]int{}
		for d := sd.min; !d.After(sd.max.Time); d = d.Next() {
			occurrences[d.Weekday()]++
			if sd.adds[d] && !sd.removes[d] {
				confirmed[d.Weekday()]++
			}
		}
		set := func(day time.Weekday) int {
			if occurrences[day] > 0 && confirmed[day] == occurrences[day] {
				return 1
			}
			return 0
		}
		c.Monday = set(time.Monday)
		c.Tuesday = set(time.Tuesday)
		c.Wednesday = set(time.Wednesday)
		c.Thursday = set(time.Thursday)
		c.Friday = set(time.Friday)
		c.Saturday = set(time.Saturday)
		c.Sunday = set(time.Sunday)
		calendars = append(calendars, c)
	}
	return calendars
}
