// Package core defines the canonical domain objects shared by every client
// backend: agent state, users, presets, sources, ingestion jobs, and the
// memory record types (messages and archival passages).
//
// All identifiers are uuid.UUID and all timestamps are time.Time. Wire-level
// representations (string ids, epoch seconds, formatted date strings) never
// escape the wire package; anything a caller receives is one of these types.
package core
