// Package gtfs holds one schedule feed's tables in memory.
//
// A Feed is loaded from a GTFS zip archive and mutated only through the
// explicit row-removal and filtering operations. Derived views such as
// TripStopTimes are rebuilt on every call so they always reflect the feed's
// current state.
package gtfs
