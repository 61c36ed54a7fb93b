// Package metrics aggregates probe outcomes per monitored instance:
// probe counts, failure counts, and latency percentiles. Events flow in
// through a buffered channel so probing never blocks on bookkeeping.
package metrics
