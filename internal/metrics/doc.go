// Package metrics provides lock-free in-process counters for authentication
// and throttling outcomes.
//
// Counters are fixed-size atomic arrays indexed by MetricID: Inc is a single
// atomic add on the hot path, Snapshot copies into maps for reporting.
//
// # What this package must NOT do
//
//   - Export to any external metrics system.
//   - Be imported outside the goGuard module.
package metrics
