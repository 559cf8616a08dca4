package store

import "github.com/sandeepkv93/planr/internal/model"

// TaskUpdate patches the editable attributes of a plan task. Nil
// fields are left untouched.
type TaskUpdate struct {
	Priority  *model.Priority
	Tags      *[]string
	DependsOn *[]string
}

// AddTask appends a task to the day's plan with a fresh id.
func (s *Store) AddTask(text string, goalID string, priority model.Priority, tags []string) string {
	id := newID()
	task := model.Task{
		ID:        id,
		Text:      text,
		GoalID:    goalID,
		Priority:  priority,
		Tags:      append([]string(nil), tags...),
		DependsOn: []string{},
	}
	s.mutateChecked(func(d *model.AppData) {
		d.Plan.Tasks = append(d.Plan.Tasks, task)
	})
	return id
}

// ToggleTask flips a task's completed flag. Dependency lists are
// informational only: toggling a dependency target neither cascades
// nor blocks. Unknown ids are ignored.
func (s *Store) ToggleTask(id string) {
	s.mutateChecked(func(d *model.AppData) {
		for i, t := range d.Plan.Tasks {
			if t.ID == id {
				t.Completed = !t.Completed
				d.Plan.Tasks[i] = t
				return
			}
		}
	})
}

func (s *Store) markTaskCompleteLocked(d *model.AppData, id string) {
	for i, t := range d.Plan.Tasks {
		if t.ID == id {
			t.Completed = true
			d.Plan.Tasks[i] = t
			return
		}
	}
}

func (s *Store) DeleteTask(id string) {
	s.mutateChecked(func(d *model.AppData) {
		tasks := d.Plan.Tasks[:0:0]
		for _, t := range d.Plan.Tasks {
			if t.ID != id {
				tasks = append(tasks, t)
			}
		}
		d.Plan.Tasks = tasks
	})
}

func (s *Store) UpdateTask(id string, update TaskUpdate) {
	s.mutateChecked(func(d *model.AppData) {
		for i, t := range d.Plan.Tasks {
			if t.ID != id {
				continue
			}
			if update.Priority != nil {
				t.Priority = *update.Priority
			}
			if update.Tags != nil {
				t.Tags = append([]string(nil), (*update.Tags)...)
			}
			if update.DependsOn != nil {
				t.DependsOn = append([]string(nil), (*update.DependsOn)...)
			}
			d.Plan.Tasks[i] = t
			return
		}
	})
}

// ReorderTasks replaces the plan's task order wholesale (drag reorder).
func (s *Store) ReorderTasks(tasks []model.Task) {
	ordered := append([]model.Task(nil), tasks...)
	s.mutateChecked(func(d *model.AppData) {
		d.Plan.Tasks = ordered
	})
}

func (s *Store) LinkTaskToGoal(taskID, goalID string) {
	s.mutateChecked(func(d *model.AppData) {
		for i, t := range d.Plan.Tasks {
			if t.ID == taskID {
				t.GoalID = goalID
				d.Plan.Tasks[i] = t
				return
			}
		}
	})
}

// AddUnplannedTask captures a thought without planning it, most recent
// first.
func (s *Store) AddUnplannedTask(text string) string {
	id := newID()
	s.mutate(func(d *model.AppData) {
		task := model.UnplannedTask{ID: id, Text: text, CreatedAt: s.now().UnixMilli()}
		d.UnplannedTasks = append([]model.UnplannedTask{task}, d.UnplannedTasks...)
	})
	return id
}

// PlanUnplannedTask promotes a captured note into a plan task in one
// atomic move: the note is consumed and a task with priority none, no
// tags and no goal is appended. Unknown ids are a no-op.
func (s *Store) PlanUnplannedTask(id string) {
	s.mutateChecked(func(d *model.AppData) {
		idx := -1
		for i, t := range d.UnplannedTasks {
			if t.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		text := d.UnplannedTasks[idx].Text
		d.UnplannedTasks = append(d.UnplannedTasks[:idx:idx], d.UnplannedTasks[idx+1:]...)
		d.Plan.Tasks = append(d.Plan.Tasks, model.Task{
			ID:        newID(),
			Text:      text,
			Priority:  model.PriorityNone,
			Tags:      []string{},
			DependsOn: []string{},
		})
	})
}

func (s *Store) DeleteUnplannedTask(id string) {
	s.mutate(func(d *model.AppData) {
		tasks := d.UnplannedTasks[:0:0]
		for _, t := range d.UnplannedTasks {
			if t.ID != id {
				tasks = append(tasks, t)
			}
		}
		d.UnplannedTasks = tasks
	})
}
