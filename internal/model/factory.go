package model

import "time"

// Factory is one entry in the factory catalog. Issues reference factories by
// ID only; the catalog is configuration, not persisted state.
type Factory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// User is the authenticated worker identity. Auth is a placeholder (single
// configured credential pair), so this carries only what the client renders.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// IssueEventType labels entries in the issue activity stream.
type IssueEventType string

const (
	IssueEventCreated       IssueEventType = "issue_created"
	IssueEventStatusChanged IssueEventType = "status_changed"
)

// IssueEvent is one audit-trail record of an issue lifecycle change.
type IssueEvent struct {
	IssueID    string         `json:"issueId"`
	FactoryID  string         `json:"factoryId"`
	Type       IssueEventType `json:"type"`
	Status     Status         `json:"status"`
	OccurredAt time.Time      `json:"occurredAt"`
}
