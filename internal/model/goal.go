package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidGoalCategory = errors.New("model: invalid goal category")

type GoalCategory string

const (
	GoalShortTerm GoalCategory = "Short Term"
	GoalLongTerm  GoalCategory = "Long Term"
)

func (c GoalCategory) IsValid() bool {
	switch c {
	case GoalShortTerm, GoalLongTerm:
		return true
	default:
		return false
	}
}

type Goal struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Category  GoalCategory `json:"category"`
	Completed bool         `json:"completed"`
	Deadline  string       `json:"deadline,omitempty"`
	Archived  bool         `json:"archived"`
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return errors.New("model: goal id is required")
	}
	if strings.TrimSpace(g.Text) == "" {
		return errors.New("model: goal text is required")
	}
	if !g.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidGoalCategory, g.Category)
	}
	return nil
}
