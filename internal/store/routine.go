package store

import "github.com/sandeepkv93/planr/internal/model"

func (s *Store) AddRoutineTask(text string, goalID string, recurringDays []int) string {
	id := newID()
	s.mutateChecked(func(d *model.AppData) {
		d.Routine = append(d.Routine, model.RoutineTask{
			ID:            id,
			Text:          text,
			GoalID:        goalID,
			RecurringDays: append([]int(nil), recurringDays...),
			DependsOn:     []string{},
		})
	})
	return id
}

// ToggleRoutineTask flips a routine's today-completion flag. Completing
// a routine appends a zero-duration log entry recording that it
// happened, unless skipLog is set (the caller already logged elapsed
// time) or the toggle is un-completing.
func (s *Store) ToggleRoutineTask(id string, skipLog bool) {
	s.mutateChecked(func(d *model.AppData) {
		for i, r := range d.Routine {
			if r.ID != id {
				continue
			}
			if !skipLog && !r.Completed {
				s.appendLogLocked(d, r.Text, 0)
			}
			r.Completed = !r.Completed
			d.Routine[i] = r
			return
		}
	})
}

func (s *Store) markRoutineCompleteLocked(d *model.AppData, id string) {
	for i, r := range d.Routine {
		if r.ID == id {
			r.Completed = true
			d.Routine[i] = r
			return
		}
	}
}

// UpdateRoutineTask patches a routine's dependency list.
func (s *Store) UpdateRoutineTask(id string, dependsOn []string) {
	s.mutateChecked(func(d *model.AppData) {
		for i, r := range d.Routine {
			if r.ID == id {
				r.DependsOn = append([]string(nil), dependsOn...)
				d.Routine[i] = r
				return
			}
		}
	})
}

func (s *Store) DeleteRoutineTask(id string) {
	s.mutateChecked(func(d *model.AppData) {
		routine := d.Routine[:0:0]
		for _, r := range d.Routine {
			if r.ID != id {
				routine = append(routine, r)
			}
		}
		d.Routine = routine
	})
}

func (s *Store) ReorderRoutine(routine []model.RoutineTask) {
	ordered := append([]model.RoutineTask(nil), routine...)
	s.mutateChecked(func(d *model.AppData) {
		d.Routine = ordered
	})
}
