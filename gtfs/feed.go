package gtfs

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Feed is one set of transit-schedule tables. All derived views are rebuilt
// on each call; callers must not reuse them across a mutation.
type Feed struct {
	Name string

	Stops         []Stop
	Routes        []Route
	Trips         []Trip
	StopTimes     []StopTime
	Calendar      []Calendar
	CalendarDates []CalendarDate
	Shapes        []ShapePoint
}

// StopsByID indexes the stops table.
func (f *Feed) StopsByID() map[string]Stop {
	m := make(map[string]Stop, len(f.Stops))
	for _, s := range f.Stops {
		m[s.ID] = s
	}
	return m
}

// RoutesByID indexes the routes table.
func (f *Feed) RoutesByID() map[string]Route {
	m := make(map[string]Route, len(f.Routes))
	for _, r := range f.Routes {
		m[r.ID] = r
	}
	return m
}

// TripsByID indexes the trips table.
func (f *Feed) TripsByID() map[string]Trip {
	m := make(map[string]Trip, len(f.Trips))
	for _, t := range f.Trips {
		m[t.ID] = t
	}
	return m
}

// RouteTypeForTrip resolves a trip's route_type through its route.
func (f *Feed) RouteTypeForTrip(tripID string) (int, bool) {
	trip, ok := f.TripsByID()[tripID]
	if !ok {
		return 0, false
	}
	route, ok := f.RoutesByID()[trip.RouteID]
	if !ok {
		return 0, false
	}
	return route.Type, true
}

// TripStopTimes groups the stop_times table by trip, each group sorted by
// sequence position.
func (f *Feed) TripStopTimes() map[string][]StopTime {
	m := map[string][]StopTime{}
	for _, st := range f.StopTimes {
		m[st.TripID] = append(m[st.TripID], st)
	}
	for _, sts := range m {
		sort.Slice(sts, func(i, j int) bool { return sts[i].Sequence < sts[j].Sequence })
	}
	return m
}

// ScheduledTripIDs returns the IDs of trips that have stop-times, sorted.
// This is the fixed trip ordering used by the synthetic check tables.
func (f *Feed) ScheduledTripIDs() []string {
	seen := map[string]struct{}{}
	for _, st := range f.StopTimes {
		seen[st.TripID] = struct{}{}
	}
	ids := maps.Keys(seen)
	sort.Strings(ids)
	return ids
}

// ServiceIDs returns the distinct service identifiers present in the trips
// table.
func (f *Feed) ServiceIDs() map[string]struct{} {
	m := map[string]struct{}{}
	for _, t := range f.Trips {
		m[t.ServiceID] = struct{}{}
	}
	return m
}

// DropTrips removes the given trips with their stop-times, and prunes shape
// points no longer referenced by any remaining trip.
func (f *Feed) DropTrips(tripIDs []string) {
	if len(tripIDs) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(tripIDs))
	for _, id := range tripIDs {
		drop[id] = struct{}{}
	}

	trips := f.Trips[:0]
	for _, t := range f.Trips {
		if _, gone := drop[t.ID]; !gone {
			trips = append(trips, t)
		}
	}
	f.Trips = trips

	stopTimes := f.StopTimes[:0]
	for _, st := range f.StopTimes {
		if _, gone := drop[st.TripID]; !gone {
			stopTimes = append(stopTimes, st)
		}
	}
	f.StopTimes = stopTimes

	liveShapes := map[string]struct{}{}
	for _, t := range f.Trips {
		if t.ShapeID != "" {
			liveShapes[t.ShapeID] = struct{}{}
		}
	}
	shapes := f.Shapes[:0]
	for _, sp := range f.Shapes {
		if _, live := liveShapes[sp.ShapeID]; live {
			shapes = append(shapes, sp)
		}
	}
	f.Shapes = shapes
}

// KeepServices removes every trip whose service identifier is not in keep,
// together with its stop-times and orphaned shapes.
func (f *Feed) KeepServices(keep map[string]struct{}) {
	var drop []string
	for _, t := range f.Trips {
		if _, ok := keep[t.ServiceID]; !ok {
			drop = append(drop, t.ID)
		}
	}
	f.DropTrips(drop)
}

// FilterToBBox removes stops outside [minLon, minLat, maxLon, maxLat] and
// the stop-times calling at them, then drops trips left without stop-times.
func (f *Feed) FilterToBBox(minLon, minLat, maxLon, maxLat float64) {
	stops := f.Stops[:0]
	kept := map[string]struct{}{}
	for _, s := range f.Stops {
		if s.Longitude >= minLon && s.Longitude <= maxLon &&
			s.Latitude >= minLat && s.Latitude <= maxLat {
			stops = append(stops, s)
			kept[s.ID] = struct{}{}
		}
	}
	f.Stops = stops

	stopTimes := f.StopTimes[:0]
	remaining := map[string]struct{}{}
	for _, st := range f.StopTimes {
		if _, ok := kept[st.StopID]; ok {
			stopTimes = append(stopTimes, st)
			remaining[st.TripID] = struct{}{}
		}
	}
	f.StopTimes = stopTimes

	var drop []string
	for _, t := range f.Trips {
		if _, ok := remaining[t.ID]; !ok {
			drop = append(drop, t.ID)
		}
	}
	f.DropTrips(drop)
}
