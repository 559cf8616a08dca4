package model

import (
	"errors"
	"strings"
)

// LogEntry records time spent on a task. TaskLabel is free text, not a
// foreign key. Entries are append-only, most recent first.
type LogEntry struct {
	ID        string `json:"id"`
	TaskLabel string `json:"task"`
	Duration  int    `json:"duration"`
	Timestamp int64  `json:"timestamp"`
	Date      string `json:"dateString"`
}

// Reflection is the end-of-day journal entry, one per date. Adding a
// reflection for an existing date replaces it.
type Reflection struct {
	Date    string `json:"date"`
	Well    string `json:"well"`
	Improve string `json:"improve"`
}

func (r Reflection) Validate() error {
	if strings.TrimSpace(r.Date) == "" {
		return errors.New("model: reflection date is required")
	}
	return nil
}

// PerformanceRecord is a server-computed daily score percentage.
type PerformanceRecord struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// Streak is server-computed; the client never mutates it directly.
type Streak struct {
	Current          int    `json:"current"`
	Longest          int    `json:"longest"`
	LastActivityDate string `json:"lastActivityDate,omitempty"`
}

type ShutdownStep string

const (
	ShutdownStepReview  ShutdownStep = "review"
	ShutdownStepReflect ShutdownStep = "reflect"
	ShutdownStepNone    ShutdownStep = ""
)

// ShutdownState is the ephemeral end-of-day workflow. UnfinishedTasks
// is a snapshot taken when the workflow opens, not a live view.
type ShutdownState struct {
	Open            bool         `json:"isOpen"`
	Step            ShutdownStep `json:"step"`
	UnfinishedTasks []Task       `json:"unfinishedTasks"`
}
