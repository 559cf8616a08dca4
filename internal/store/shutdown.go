package store

import "github.com/sandeepkv93/planr/internal/model"

// StartShutdownRoutine runs the end-of-day decision procedure, freshly
// evaluated on every invocation: unfinished tasks open the review
// step with a snapshot of them; otherwise a missing reflection for
// today opens the reflect step; otherwise the workflow is already
// satisfied and closes.
func (s *Store) StartShutdownRoutine() {
	s.mutate(func(d *model.AppData) {
		var unfinished []model.Task
		for _, t := range d.Plan.Tasks {
			if !t.Completed {
				unfinished = append(unfinished, t)
			}
		}
		if len(unfinished) > 0 {
			d.Shutdown = model.ShutdownState{
				Open:            true,
				Step:            model.ShutdownStepReview,
				UnfinishedTasks: unfinished,
			}
			return
		}

		today := s.today()
		for _, r := range d.Reflections.Items {
			if r.Date == today {
				d.Shutdown = model.ShutdownState{}
				return
			}
		}
		d.Shutdown = model.ShutdownState{
			Open:            true,
			Step:            model.ShutdownStepReflect,
			UnfinishedTasks: []model.Task{},
		}
	})
}

// ProcessUnfinishedTasks converts every task in the shutdown snapshot
// into an unplanned capture, drops all incomplete tasks from the plan,
// and advances to the reflect step. There is no mutator to reverse it.
func (s *Store) ProcessUnfinishedTasks() {
	s.mutateChecked(func(d *model.AppData) {
		captured := make([]model.UnplannedTask, 0, len(d.Shutdown.UnfinishedTasks))
		for _, t := range d.Shutdown.UnfinishedTasks {
			captured = append(captured, model.UnplannedTask{
				ID:        newID(),
				Text:      t.Text,
				CreatedAt: s.now().UnixMilli(),
			})
		}
		d.UnplannedTasks = append(captured, d.UnplannedTasks...)

		kept := d.Plan.Tasks[:0:0]
		for _, t := range d.Plan.Tasks {
			if t.Completed {
				kept = append(kept, t)
			}
		}
		d.Plan.Tasks = kept
		d.Shutdown.Step = model.ShutdownStepReflect
	})
}

func (s *Store) SetShutdownStep(step model.ShutdownStep) {
	s.mutate(func(d *model.AppData) {
		d.Shutdown.Step = step
	})
}

func (s *Store) CloseShutdownRoutine() {
	s.mutate(func(d *model.AppData) {
		d.Shutdown = model.ShutdownState{}
	})
}

// AddReflection upserts today's reflection into the held page,
// replacing any existing same-day entry, then unconditionally closes
// the shutdown workflow.
func (s *Store) AddReflection(well, improve string) {
	s.mutateChecked(func(d *model.AppData) {
		today := s.today()
		entry := model.Reflection{Date: today, Well: well, Improve: improve}
		items := []model.Reflection{entry}
		for _, r := range d.Reflections.Items {
			if r.Date != today {
				items = append(items, r)
			}
		}
		d.Reflections.Items = items
		d.Shutdown = model.ShutdownState{}
	})
}
