// Package validate runs structural and plausibility checks over one feed
// and records the findings in an ordered ledger.
//
// Row references inside a finding are positions in a deterministic,
// check-specific ordering of a synthetic table (trip identifier, then
// sequence position). They are a projection of the feed's current state and
// are re-derived on every pass, never cached.
package validate
