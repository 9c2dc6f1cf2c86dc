// Package dedupe provides webhook delivery deduplication using a
// time-based cache, so retried deliveries within a configurable window
// are answered without reprocessing.
package dedupe
