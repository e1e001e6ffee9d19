// Package observability provides the diagnostic logger, the write-attempt
// event log, and metrics derived from it. Events are persisted as JSON
// Lines (JSONL) and metrics are computed on demand by scanning the log.
package observability
