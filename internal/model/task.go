package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrInvalidWeekday  = errors.New("model: invalid recurring weekday")
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	default:
		return false
	}
}

// Task is a single entry in the day's plan. GoalID is a weak reference:
// the goal may be deleted out from under it, and DependsOn ids are
// informational only and never gate completion.
type Task struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	GoalID    string   `json:"goalId,omitempty"`
	Priority  Priority `json:"priority"`
	Tags      []string `json:"tags"`
	DependsOn []string `json:"dependsOn,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	return nil
}

// Plan holds one calendar day's ordered task list. Order is
// user-significant and preserved across every mutation.
type Plan struct {
	Date  string `json:"date"`
	Tasks []Task `json:"tasks"`
}

// RoutineTask recurs on a set of weekdays (0=Sunday..6=Saturday).
// Completed is today's completion state and is cleared at day rollover.
type RoutineTask struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Completed     bool     `json:"completed"`
	GoalID        string   `json:"goalId,omitempty"`
	RecurringDays []int    `json:"recurringDays"`
	DependsOn     []string `json:"dependsOn,omitempty"`
}

func (r RoutineTask) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: routine task id is required")
	}
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("model: routine task text is required")
	}
	for _, day := range r.RecurringDays {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
		}
	}
	return nil
}

// RecursOn reports whether the routine is scheduled for the given weekday.
func (r RoutineTask) RecursOn(day time.Weekday) bool {
	for _, d := range r.RecurringDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

// UnplannedTask is a capture-only note, promotable into a plan Task.
type UnplannedTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}
