// Package observability loads the agent metrics event log and reduces it into
// scored metric results, per-agent statistics, quality gate statistics, and a
// dashboard snapshot. Events are stored as JSON Lines (JSONL) and every result
// is derived on demand from the loaded events.
package observability
