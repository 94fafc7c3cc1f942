package model

import (
	"fmt"
	"strings"
	"time"
)

// Well-known status values. Status is otherwise an opaque string; the
// lifecycle engine only compares against StatusCompleted.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Priority is the ordered task priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// dueDateLayouts are the accepted wire formats for due dates, tried in order.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDueDate parses a due date from its wire representation.
func ParseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", s)
}

// Task is a unit of assignable work.
type Task struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	Priority    Priority  `json:"priority" db:"priority"`
	Status      string    `json:"status" db:"status"`

	// CreatedBy is the id of the creating user. Set once at creation,
	// never changed afterwards.
	CreatedBy string `json:"created_by" db:"created_by"`

	// AssignedTo is the id of the user currently responsible.
	AssignedTo string `json:"assigned_to" db:"assigned_to"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
