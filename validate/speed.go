package validate

import (
	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/gtfs"
	"github.com/transit-analytics/gtfs-assess/lookup"
)

// ScheduleSegment is one adjacent stop pair of the synthetic
// full_stop_schedule table: every trip's stop-times sorted by sequence,
// trips ordered by identifier.
type ScheduleSegment struct {
	TripID       string
	FromStopID   string
	ToStopID     string
	FromSequence int
	ToSequence   int
	DistanceKM   float64
	ElapsedSec   int
	RouteType    int
}

// WindowSegment is one sliding window of the synthetic
// multiple_stops_invalid table. DistanceKM sums the pairwise consecutive
// distances inside the window, so indirect paths are penalised.
type WindowSegment struct {
	TripID        string
	StartSequence int
	EndSequence   int
	DistanceKM    float64
	ElapsedSec    int
	RouteType     int
}

// FullStopSchedule derives the consecutive-stop segment table for the whole
// feed in its fixed ordering. Row indices in fast-travel findings refer to
// positions in this slice.
func FullStopSchedule(f *gtfs.Feed) []ScheduleSegment {
	stops := f.StopsByID()
	byTrip := f.TripStopTimes()

	var segments []ScheduleSegment
	for _, tripID := range f.ScheduledTripIDs() {
		sts := byTrip[tripID]
		routeType, _ := f.RouteTypeForTrip(tripID)
		for i := 0; i+1 < len(sts); i++ {
			a, b := sts[i], sts[i+1]
			segments = append(segments, ScheduleSegment{
				TripID:       tripID,
				FromStopID:   a.StopID,
				ToStopID:     b.StopID,
				FromSequence: a.Sequence,
				ToSequence:   b.Sequence,
				DistanceKM:   stopDistanceKM(stops, a.StopID, b.StopID),
				ElapsedSec:   int(b.Departure - a.Arrival),
				RouteType:    routeType,
			})
		}
	}
	return segments
}

// MultiStopWindows derives the sliding-window table for the whole feed in
// its fixed ordering. Trips with fewer stop-times than the window are
// skipped. A window below 2 is a configuration error, raised before any
// table is touched.
func MultiStopWindows(f *gtfs.Feed, window int) ([]WindowSegment, error) {
	if window < 2 {
		return nil, assess.NewConfigurationError("window", "must be at least 2, got %d", window)
	}
	stops := f.StopsByID()
	byTrip := f.TripStopTimes()

	var windows []WindowSegment
	for _, tripID := range f.ScheduledTripIDs() {
		sts := byTrip[tripID]
		if len(sts) < window {
			continue
		}
		routeType, _ := f.RouteTypeForTrip(tripID)
		for i := 0; i+window <= len(sts); i++ {
			first, last := sts[i], sts[i+window-1]
			distance := 0.0
			for j := i; j+1 < i+window; j++ {
				distance += stopDistanceKM(stops, sts[j].StopID, sts[j+1].StopID)
			}
			windows = append(windows, WindowSegment{
				TripID:        tripID,
				StartSequence: first.Sequence,
				EndSequence:   last.Sequence,
				DistanceKM:    distance,
				ElapsedSec:    int(last.Departure - first.Arrival),
				RouteType:     routeType,
			})
		}
	}
	return windows, nil
}

// CheckConsecutiveStopSpeed flags segments implying an implausible speed
// between adjacent stops. At most one record is produced; none when no
// segment is flagged.
func CheckConsecutiveStopSpeed(f *gtfs.Feed, thresholds *lookup.Table) []Record {
	var flagged []int
	for i, seg := range FullStopSchedule(f) {
		if implausible(seg.DistanceKM, seg.ElapsedSec, seg.RouteType, thresholds) {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return nil
	}
	return []Record{{
		Kind:    KindWarning,
		Message: MsgFastTravelConsecutive,
		Table:   TableFullStopSchedule,
		Rows:    flagged,
	}}
}

// CheckMultiStopSpeed flags sliding windows whose cumulative speed is
// implausible even though each hop may pass the consecutive check. An
// out-of-range window fails before any table is derived.
func CheckMultiStopSpeed(f *gtfs.Feed, window int, thresholds *lookup.Table) ([]Record, error) {
	windows, err := MultiStopWindows(f, window)
	if err != nil {
		return nil, err
	}
	var flagged []int
	for i, w := range windows {
		if implausible(w.DistanceKM, w.ElapsedSec, w.RouteType, thresholds) {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return nil, nil
	}
	return []Record{{
		Kind:    KindWarning,
		Message: MsgFastTravelMultiple,
		Table:   TableMultipleStopsInvalid,
		Rows:    flagged,
	}}, nil
}

// implausible applies the shared flagging policy: a non-positive elapsed
// time is degenerate and always flagged; otherwise the average speed must
// not exceed the mode's threshold.
func implausible(distanceKM float64, elapsedSec int, routeType int, thresholds *lookup.Table) bool {
	if elapsedSec <= 0 {
		return true
	}
	speedKMH := distanceKM / (float64(elapsedSec) / 3600)
	return speedKMH > thresholds.MaxSpeedKMH(routeType)
}

func stopDistanceKM(stops map[string]gtfs.Stop, fromID, toID string) float64 {
	from, ok1 := stops[fromID]
	to, ok2 := stops[toID]
	if !ok1 || !ok2 {
		return 0
	}
	return gtfs.HaversineKM(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}
