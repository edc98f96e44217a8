package validate

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/gtfs"
	"github.com/transit-analytics/gtfs-assess/lookup"
)

// DefaultWindow is the multi-stop check's window size.
const DefaultWindow = 3

// Options controls a Validator. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// FarStops enables the two fast-travel checks after the structural
	// checks.
	FarStops bool
	// Window is the multi-stop check's window size, at least 2.
	Window int
	// Thresholds is the route_type speed lookup.
	Thresholds *lookup.Table
	// Now is the clock used for the feed-expiry check.
	Now func() time.Time
}

// DefaultOptions returns the documented default check configuration.
func DefaultOptions() Options {
	return Options{
		FarStops:   true,
		Window:     DefaultWindow,
		Thresholds: lookup.Default(),
		Now:        time.Now,
	}
}

// Validator runs checks over a feed in a fixed order: structural checks
// first, then the consecutive-stop and multi-stop speed checks.
type Validator struct {
	opts Options
}

// New builds a Validator, failing fast on invalid options.
func New(opts Options) (*Validator, error) {
	if opts.Window < 2 {
		return nil, assess.NewConfigurationError("window", "must be at least 2, got %d", opts.Window)
	}
	if opts.Thresholds == nil {
		opts.Thresholds = lookup.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Validator{opts: opts}, nil
}

// Validate runs one full validation pass and returns a fresh ledger. Any
// previous ledger for the feed is superseded, never merged.
func (v *Validator) Validate(f *gtfs.Feed) (*Ledger, error) {
	if err := requireTables(f); err != nil {
		return nil, err
	}

	ledger := NewLedger()
	for _, r := range checkStopTimeReferences(f) {
		ledger.Append(r)
	}
	for _, r := range checkExpiry(f, v.opts.Now()) {
		ledger.Append(r)
	}
	if v.opts.FarStops {
		for _, r := range CheckConsecutiveStopSpeed(f, v.opts.Thresholds) {
			ledger.Append(r)
		}
		multi, err := CheckMultiStopSpeed(f, v.opts.Window, v.opts.Thresholds)
		if err != nil {
			return nil, err
		}
		for _, r := range multi {
			ledger.Append(r)
		}
	}

	log.Debug().Str("feed", f.Name).Int("findings", ledger.Len()).Msg("Validation pass complete")
	return ledger, nil
}

func requireTables(f *gtfs.Feed) error {
	for table, rows := range map[string]int{
		"stops":      len(f.Stops),
		"routes":     len(f.Routes),
		"trips":      len(f.Trips),
		"stop_times": len(f.StopTimes),
	} {
		if rows == 0 {
			return assess.NewStructuralError(f.Name, "required table %s is empty", table)
		}
	}
	return nil
}

// checkStopTimeReferences flags stop_times rows with dangling stop or trip
// references, and repeated (trip_id, stop_sequence) pairs. Row indices are
// positions in the stop_times table sorted by trip identifier then sequence.
func checkStopTimeReferences(f *gtfs.Feed) []Record {
	sorted := make([]gtfs.StopTime, len(f.StopTimes))
	copy(sorted, f.StopTimes)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TripID != sorted[j].TripID {
			return sorted[i].TripID < sorted[j].TripID
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	stops := f.StopsByID()
	trips := f.TripsByID()

	var badStop, badTrip, repeated []int
	type tripSeq struct {
		trip string
		seq  int
	}
	seen := map[tripSeq]bool{}
	for i, st := range sorted {
		if _, ok := stops[st.StopID]; !ok {
			badStop = append(badStop, i)
		}
		if _, ok := trips[st.TripID]; !ok {
			badTrip = append(badTrip, i)
		}
		key := tripSeq{st.TripID, st.Sequence}
		if seen[key] {
			repeated = append(repeated, i)
		}
		seen[key] = true
	}

	var records []Record
	if len(badStop) > 0 {
		records = append(records, Record{KindError, MsgUndefinedStopID, "stop_times", badStop})
	}
	if len(badTrip) > 0 {
		records = append(records, Record{KindError, MsgUndefinedTripID, "stop_times", badTrip})
	}
	if len(repeated) > 0 {
		records = append(records, Record{KindError, MsgRepeatedStopSequence, "stop_times", repeated})
	}
	return records
}

// checkExpiry warns when every service window in the feed ends before now.
func checkExpiry(f *gtfs.Feed, now time.Time) []Record {
	var last gtfs.Date
	for _, c := range f.Calendar {
		if c.EndDate.After(last.Time) {
			last = c.EndDate
		}
	}
	for _, cd := range f.CalendarDates {
		if cd.Date.After(last.Time) {
			last = cd.Date
		}
	}
	if last.IsZero() {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if last.Before(today) {
		return []Record{{KindWarning, MsgFeedExpired, "calendar", nil}}
	}
	return nil
}
