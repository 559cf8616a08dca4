package store

import "github.com/sandeepkv93/planr/internal/model"

func (s *Store) AddGoal(text string, category model.GoalCategory, deadline string) string {
	id := newID()
	s.mutateChecked(func(d *model.AppData) {
		d.Goals = append(d.Goals, model.Goal{
			ID:       id,
			Text:     text,
			Category: category,
			Deadline: deadline,
		})
	})
	return id
}

func (s *Store) ToggleGoal(id string) {
	s.mutateChecked(func(d *model.AppData) {
		for i, g := range d.Goals {
			if g.ID == id {
				g.Completed = !g.Completed
				d.Goals[i] = g
				return
			}
		}
	})
}

func (s *Store) ArchiveGoal(id string) {
	s.setGoalArchived(id, true)
}

func (s *Store) RestoreGoal(id string) {
	s.setGoalArchived(id, false)
}

func (s *Store) setGoalArchived(id string, archived bool) {
	s.mutateChecked(func(d *model.AppData) {
		for i, g := range d.Goals {
			if g.ID == id {
				g.Archived = archived
				d.Goals[i] = g
				return
			}
		}
	})
}

// PermanentlyDeleteGoal removes the goal outright. Tasks referencing
// it keep their dangling goal id; the reference is weak by design.
func (s *Store) PermanentlyDeleteGoal(id string) {
	s.mutateChecked(func(d *model.AppData) {
		goals := d.Goals[:0:0]
		for _, g := range d.Goals {
			if g.ID != id {
				goals = append(goals, g)
			}
		}
		d.Goals = goals
	})
}
