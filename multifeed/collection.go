// Package multifeed composes validation and aggregation over an ordered
// collection of independently owned feeds.
package multifeed

import (
	"sort"

	"github.com/rs/zerolog/log"

	assess "github.com/transit-analytics/gtfs-assess"
	"github.com/transit-analytics/gtfs-assess/aggregate"
	"github.com/transit-analytics/gtfs-assess/gtfs"
	"github.com/transit-analytics/gtfs-assess/validate"
)

// Instance is one feed with the ledger from its latest validation pass.
type Instance struct {
	Feed   *gtfs.Feed
	Ledger *validate.Ledger
}

// Collection owns an ordered set of feed instances. No state is shared
// across feeds; cross-feed results only read per-feed outputs.
type Collection struct {
	instances []*Instance
	validator *validate.Validator
}

// New builds a collection over already-loaded feeds.
func New(feeds []*gtfs.Feed, opts validate.Options) (*Collection, error) {
	if len(feeds) == 0 {
		return nil, assess.NewConfigurationError("feeds", "no feeds given")
	}
	v, err := validate.New(opts)
	if err != nil {
		return nil, err
	}
	c := &Collection{validator: v}
	for _, f := range feeds {
		c.instances = append(c.instances, &Instance{Feed: f})
	}
	return c, nil
}

// Open loads each path as a GTFS zip and builds a collection.
func Open(paths []string, opts validate.Options) (*Collection, error) {
	if len(paths) == 0 {
		return nil, assess.NewConfigurationError("paths", "no GTFS archives given")
	}
	var feeds []*gtfs.Feed
	for _, p := range paths {
		f, err := gtfs.OpenZip(p)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}
	return New(feeds, opts)
}

// Instances returns the ordered feed instances.
func (c *Collection) Instances() []*Instance { return c.instances }

// FeedNames returns the feed names in collection order.
func (c *Collection) FeedNames() []string {
	names := make([]string, 0, len(c.instances))
	for _, inst := range c.instances {
		names = append(names, inst.Feed.Name)
	}
	return names
}

// FeedRecord is one ledger row labelled with its feed.
type FeedRecord struct {
	Feed string `json:"feed"`
	validate.TableRow
}

// Validate runs a fresh validation pass on every feed, replacing each
// instance's ledger, and returns the combined labelled rows.
func (c *Collection) Validate() ([]FeedRecord, error) {
	var combined []FeedRecord
	for _, inst := range c.instances {
		ledger, err := c.validator.Validate(inst.Feed)
		if err != nil {
			return nil, err
		}
		inst.Ledger = ledger
		for _, row := range ledger.ToTable() {
			combined = append(combined, FeedRecord{Feed: inst.Feed.Name, TableRow: row})
		}
	}
	return combined, nil
}

// CleanFeeds removes the trips behind each feed's fast-travel findings and
// re-validates, returning the combined post-clean rows. Feeds without a
// ledger are validated first.
func (c *Collection) CleanFeeds() ([]FeedRecord, error) {
	var combined []FeedRecord
	for _, inst := range c.instances {
		if inst.Ledger == nil {
			ledger, err := c.validator.Validate(inst.Feed)
			if err != nil {
				return nil, err
			}
			inst.Ledger = ledger
		}
		ledger, err := c.validator.Clean(inst.Feed, inst.Ledger)
		if err != nil {
			return nil, err
		}
		inst.Ledger = ledger
		for _, row := range ledger.ToTable() {
			combined = append(combined, FeedRecord{Feed: inst.Feed.Name, TableRow: row})
		}
	}
	return combined, nil
}

// EnsurePopulatedCalendars synthesizes a weekly-pattern table for feeds
// that only carry calendar_dates. A feed with neither table populated is a
// structural error.
func (c *Collection) EnsurePopulatedCalendars() error {
	for _, inst := range c.instances {
		f := inst.Feed
		if len(f.Calendar) > 0 {
			continue
		}
		if len(f.CalendarDates) == 0 {
			return assess.NewStructuralError(f.Name, "calendar and calendar_dates are both empty")
		}
		f.Calendar = aggregate.SynthesizeCalendar(f.CalendarDates)
		log.Info().Str("feed", f.Name).Int("services", len(f.Calendar)).Msg("Synthesized calendar from calendar_dates")
	}
	return nil
}

// GetDates returns either the [min, max] pair across all feeds' expanded
// calendars, or the full sorted set of distinct dates on which at least one
// service is active.
func (c *Collection) GetDates(returnRange bool) ([]gtfs.Date, error) {
	seen := map[gtfs.Date]struct{}{}
	for _, inst := range c.instances {
		expanded, err := aggregate.ExpandCalendar(inst.Feed)
		if err != nil {
			return nil, err
		}
		for d, services := range expanded {
			if len(services) > 0 {
				seen[d] = struct{}{}
			}
		}
	}
	dates := make([]gtfs.Date, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j].Time) })
	// The range is always a [min, max] pair, collapsing to a repeated
	// date when only one is active.
	if returnRange && len(dates) > 0 {
		return []gtfs.Date{dates[0], dates[len(dates)-1]}, nil
	}
	return dates, nil
}

// Summarise aggregates every feed independently, then concatenates the
// per-date per-route_type rows, summing counts when feeds contribute to the
// same (date, route_type) pair. Dates present in only one feed appear with
// that feed's contribution alone.
func (c *Collection) Summarise(opts aggregate.Options) (*aggregate.Result, error) {
	type key struct {
		date      gtfs.Date
		routeType int
	}
	merged := map[key]int{}
	for _, inst := range c.instances {
		expanded, err := aggregate.ExpandCalendar(inst.Feed)
		if err != nil {
			return nil, err
		}
		result, err := aggregate.Aggregate(inst.Feed, expanded, aggregate.Options{Which: opts.Which, Ops: opts.Ops})
		if err != nil {
			return nil, err
		}
		for _, row := range result.Dated {
			merged[key{row.Date, row.RouteType}] += row.Count
		}
	}

	dated := make([]aggregate.DatedRow, 0, len(merged))
	for k, count := range merged {
		dated = append(dated, aggregate.DatedRow{Date: k.date, RouteType: k.routeType, Count: count})
	}
	aggregate.SortDated(dated, opts.SortByRouteType)

	result := &aggregate.Result{Dated: dated}
	if opts.ToDays {
		days, err := aggregate.ToDaySummary(dated, opts.Ops, opts.SortByRouteType)
		if err != nil {
			return nil, err
		}
		result.Days = days
	}
	return result, nil
}

// FilterToDate restricts every feed to the trips whose service is active on
// at least one of the given dates. A date outside a feed's expanded
// calendar is a configuration error naming the feed, raised before any
// feed is mutated.
func (c *Collection) FilterToDate(dates []gtfs.Date, deleteEmptyFeeds bool) error {
	if len(dates) == 0 {
		return assess.NewConfigurationError("dates", "no dates given")
	}
	// Resolve the keep-set for every feed first so a bad date cannot
	// leave earlier feeds filtered.
	keeps := make([]map[string]struct{}, len(c.instances))
	for i, inst := range c.instances {
		expanded, err := aggregate.ExpandCalendar(inst.Feed)
		if err != nil {
			return err
		}
		keep := map[string]struct{}{}
		for _, d := range dates {
			services, ok := expanded[d]
			if !ok {
				return assess.NewConfigurationError("dates", "date %s not present in feed %s", d, inst.Feed.Name)
			}
			for s := range services {
				keep[s] = struct{}{}
			}
		}
		keeps[i] = keep
	}
	for i, inst := range c.instances {
		inst.Feed.KeepServices(keeps[i])
	}
	if deleteEmptyFeeds {
		c.ValidateEmptyFeeds(true)
	}
	return nil
}

// FilterToBBox restricts every feed to the stops inside the bounding box,
// optionally dropping feeds left with no stop-times.
func (c *Collection) FilterToBBox(minLon, minLat, maxLon, maxLat float64, deleteEmptyFeeds bool) {
	for _, inst := range c.instances {
		inst.Feed.FilterToBBox(minLon, minLat, maxLon, maxLat)
		if len(inst.Feed.StopTimes) == 0 {
			log.Warn().Str("feed", inst.Feed.Name).Msg("Bounding box leaves feed with no stop_times")
		}
	}
	if deleteEmptyFeeds {
		c.ValidateEmptyFeeds(true)
	}
}

// ValidateEmptyFeeds returns the names of feeds with no stop-times. With
// delete, those feeds are removed from the collection; emptying the whole
// collection is warned about, not an error.
func (c *Collection) ValidateEmptyFeeds(delete bool) []string {
	var empty []string
	for _, inst := range c.instances {
		if len(inst.Feed.StopTimes) == 0 {
			empty = append(empty, inst.Feed.Name)
		}
	}
	if delete && len(empty) > 0 {
		kept := c.instances[:0]
		for _, inst := range c.instances {
			if len(inst.Feed.StopTimes) > 0 {
				kept = append(kept, inst)
			}
		}
		c.instances = kept
		if len(c.instances) == 0 {
			log.Warn().Msg("Multi-feed collection has no feeds")
		}
	}
	return empty
}
