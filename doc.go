// Package gtfsassess validates, cleans and summarises GTFS schedule feeds.
//
// The library is organised into:
//   - gtfs: the in-memory feed tables and zip loading
//   - validate: the validity ledger, fast-travel checkers and cleaning
//   - lookup: route_type descriptions and plausible speed thresholds
//   - aggregate: calendar expansion and date-based service counts
//   - multifeed: cross-feed composition of the above
//   - formatter: JSON/CSV rendering of ledgers and summary tables
//
// The root package only carries the shared error taxonomy.
package gtfsassess
