// Package observability records task activity and reports on it. Mutations
// are appended to a JSON Lines (JSONL) event log; activity metrics are
// derived from that log on demand, and due-date alerts are evaluated against
// the current task list.
package observability
