package models

import "time"

// PushRequest carries one mutation to the server. MutationID doubles as
// the idempotency key: the server must apply a request with a previously
// seen MutationID at most once and answer with the original outcome.
type PushRequest struct {
	MutationID    string     `json:"mutation_id"`
	EntityType    EntityType `json:"entity_type"`
	EntityID      string     `json:"entity_id"`
	Operation     Operation  `json:"operation"`
	Payload       Payload    `json:"payload"`
	BaseVersion   int64      `json:"base_version"`
	ClientStamped time.Time  `json:"client_stamped"`
}

// PushResult is the server's answer to a push. When Conflict is set the
// server refused the write and ServerSnapshot holds its current record so
// the Conflict Resolver can reconcile without an extra round trip.
type PushResult struct {
	Success        bool            `json:"success"`
	ServerID       string          `json:"server_id,omitempty"`
	ServerVersion  int64           `json:"server_version,omitempty"`
	Conflict       bool            `json:"conflict,omitempty"`
	ServerSnapshot *EntitySnapshot `json:"server_snapshot,omitempty"`
}

// PullRequest asks for server deltas of one entity type strictly after
// Since, paged by Cursor/Limit.
type PullRequest struct {
	EntityType EntityType `json:"entity_type"`
	Since      *time.Time `json:"since,omitempty"`
	Cursor     string     `json:"cursor,omitempty"`
	Limit      int        `json:"limit"`
}

// PullPage is one page of server deltas. NextCursor is empty on the last
// page; Total is the server's count of all matching records and feeds
// progress reporting.
type PullPage struct {
	Records    []EntitySnapshot `json:"records"`
	NextCursor string           `json:"next_cursor,omitempty"`
	Total      int              `json:"total"`
}
