// Package aggregate expands a feed's service calendar into per-date active
// services and produces daily and weekday-summary service counts.
package aggregate
