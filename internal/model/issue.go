package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of an issue. Any status may transition to any
// other; there is no enforced transition graph.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Issue is a reported problem tied to one factory. The factory id is the
// partition key: every list operation and every local-storage namespace is
// scoped by it, and it never changes after creation.
type Issue struct {
	ID          string    `json:"id"`
	FactoryID   string    `json:"factoryId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Status      Status    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IssueDraft is the client-supplied shape for creating an issue. Everything
// except Images is required.
type IssueDraft struct {
	FactoryID   string   `json:"factoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedBy   string   `json:"createdBy"`
	Images      []string `json:"images,omitempty"`
}

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

// Validate checks that all required draft fields are non-empty after trimming.
func (d IssueDraft) Validate() error {
	if strings.TrimSpace(d.FactoryID) == "" {
		return &ValidationError{Field: "factoryId"}
	}
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description"}
	}
	if strings.TrimSpace(d.CreatedBy) == "" {
		return &ValidationError{Field: "createdBy"}
	}
	return nil
}

// NewIssue builds an Issue from a validated draft. Status is forced to OPEN
// and both timestamps are stamped with the same instant, so a freshly created
// issue always satisfies createdAt == updatedAt.
func NewIssue(draft IssueDraft, id string, now time.Time) *Issue {
	images := draft.Images
	if images == nil {
		images = []string{}
	}
	return &Issue{
		ID:          id,
		FactoryID:   draft.FactoryID,
		Title:       draft.Title,
		Description: draft.Description,
		Images:      images,
		Status:      StatusOpen,
		CreatedBy:   draft.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
