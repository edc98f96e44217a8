package validate

import (
	"sort"

	"github.com/rs/zerolog/log"

	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/gtfs"
)

// Clean removes the trips behind a ledger's fast-travel findings, then
// re-runs validation: removing trips can resolve or introduce other
// findings, so the returned ledger is a fresh pass over the mutated feed.
//
// Flagged row indices are mapped back to trip identifiers by re-deriving
// the synthetic tables against the feed's current state. A step whose rows
// no longer fit that table is reported and skipped; the feed is left
// unmodified for that step and cleaning continues.
func (v *Validator) Clean(f *gtfs.Feed, ledger *Ledger) (*Ledger, error) {
	drop := map[string]struct{}{}
	for _, record := range ledger.Records() {
		var tripIDs []string
		var failure *assess.CleaningFailure
		switch record.Table {
		case TableFullStopSchedule:
			segments := FullStopSchedule(f)
			tripIDs, failure = tripsForRows(f.Name, record.Table, record.Rows, len(segments), func(i int) string {
				return segments[i].TripID
			})
		case TableMultipleStopsInvalid:
			windows, err := MultiStopWindows(f, v.opts.Window)
			if err != nil {
				return nil, err
			}
			tripIDs, failure = tripsForRows(f.Name, record.Table, record.Rows, len(windows), func(i int) string {
				return windows[i].TripID
			})
		default:
			// Not a cleanable finding.
			continue
		}
		if failure != nil {
			log.Warn().Str("feed", f.Name).Str("table", record.Table).Msg(failure.Msg)
			continue
		}
		for _, id := range tripIDs {
			drop[id] = struct{}{}
		}
	}

	if len(drop) > 0 {
		ids := make([]string, 0, len(drop))
		for id := range drop {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		f.DropTrips(ids)
		log.Info().Str("feed", f.Name).Int("trips", len(ids)).Msg("Dropped fast-travel trips")
	}

	return v.Validate(f)
}

func tripsForRows(feed, table string, rows []int, tableLen int, tripAt func(int) string) ([]string, *assess.CleaningFailure) {
	var tripIDs []string
	for _, row := range rows {
		if row < 0 || row >= tableLen {
			return nil, &assess.CleaningFailure{
				Feed:  feed,
				Table: table,
				Msg:   "stale row reference, table has changed since validation",
			}
		}
		tripIDs = append(tripIDs, tripAt(row))
	}
	return tripIDs, nil
}
