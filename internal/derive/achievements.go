// Package derive holds the pure recomputation pass that runs at the
// end of every relevant store mutation.
package derive

import "github.com/sandeepkv93/planr/internal/model"

// Achievement pairs an id with a predicate over the full post-mutation
// state. Predicates are only ever evaluated while locked; once an id
// is unlocked its predicate is never re-invoked, so definitions may
// use threshold conditions without worrying about later state shrink.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Condition   func(model.AppData) bool
}

// Achievements is the fixed, ordered definition set.
var Achievements = []Achievement{
	{
		ID:          "first-plan",
		Name:        "Planner",
		Description: "Add your first task to the day's plan.",
		Condition: func(d model.AppData) bool {
			return len(d.Plan.Tasks) >= 1
		},
	},
	{
		ID:          "first-win",
		Name:        "First Win",
		Description: "Complete a task.",
		Condition: func(d model.AppData) bool {
			for _, t := range d.Plan.Tasks {
				if t.Completed {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "clean-sweep",
		Name:        "Clean Sweep",
		Description: "Complete every task in the day's plan.",
		Condition: func(d model.AppData) bool {
			if len(d.Plan.Tasks) == 0 {
				return false
			}
			for _, t := range d.Plan.Tasks {
				if !t.Completed {
					return false
				}
			}
			return true
		},
	},
	{
		ID:          "goal-setter",
		Name:        "Goal Setter",
		Description: "Create a goal.",
		Condition: func(d model.AppData) bool {
			return len(d.Goals) >= 1
		},
	},
	{
		ID:          "goal-getter",
		Name:        "Goal Getter",
		Description: "Complete a goal.",
		Condition: func(d model.AppData) bool {
			for _, g := range d.Goals {
				if g.Completed {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "deep-worker",
		Name:        "Deep Worker",
		Description: "Log five hours of focused time.",
		Condition: func(d model.AppData) bool {
			total := 0
			for _, entry := range d.Logs {
				total += entry.Duration
			}
			return total >= 5*3600
		},
	},
	{
		ID:          "journaler",
		Name:        "Journaler",
		Description: "Write a daily reflection.",
		Condition: func(d model.AppData) bool {
			return len(d.Reflections.Items) >= 1
		},
	},
	{
		ID:          "routine-master",
		Name:        "Routine Master",
		Description: "Finish every routine task in a day.",
		Condition: func(d model.AppData) bool {
			if len(d.Routine) == 0 {
				return false
			}
			for _, r := range d.Routine {
				if !r.Completed {
					return false
				}
			}
			return true
		},
	},
	{
		ID:          "week-streak",
		Name:        "Momentum",
		Description: "Reach a seven day productivity streak.",
		Condition: func(d model.AppData) bool {
			return d.Streak.Current >= 7
		},
	},
}

// NewlyUnlocked evaluates every still-locked achievement against the
// given state and returns the ids that became satisfied, in definition
// order. Already-unlocked predicates are skipped, never re-run.
func NewlyUnlocked(data model.AppData) []string {
	unlocked := make(map[string]bool, len(data.UnlockedAchievements))
	for _, id := range data.UnlockedAchievements {
		unlocked[id] = true
	}
	var fresh []string
	for _, ach := range Achievements {
		if unlocked[ach.ID] {
			continue
		}
		if ach.Condition(data) {
			fresh = append(fresh, ach.ID)
		}
	}
	return fresh
}

// ByID returns the definition for an id, for display layers.
func ByID(id string) (Achievement, bool) {
	for _, ach := range Achievements {
		if ach.ID == id {
			return ach, true
		}
	}
	return Achievement{}, false
}
