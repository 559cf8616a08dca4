package store

import "github.com/sandeepkv93/planr/internal/model"

// appendLogLocked prepends a log entry (most recent first). Callers
// hold the store lock.
func (s *Store) appendLogLocked(d *model.AppData, label string, durationSeconds int) {
	entry := model.LogEntry{
		ID:        newID(),
		TaskLabel: label,
		Duration:  durationSeconds,
		Timestamp: s.now().UnixMilli(),
		Date:      s.today(),
	}
	d.Logs = append([]model.LogEntry{entry}, d.Logs...)
}

// AddLog records time spent outside of any timer.
func (s *Store) AddLog(label string, durationSeconds int) {
	s.mutateChecked(func(d *model.AppData) {
		s.appendLogLocked(d, label, durationSeconds)
	})
}

// StartTimer creates the ActiveTask. Any existing timer is overwritten
// unconditionally: last start wins.
func (s *Store) StartTimer(id string, kind model.TimerKind, label string, durationMinutes int) {
	seconds := durationMinutes * 60
	s.mutate(func(d *model.AppData) {
		d.ActiveTask = &model.ActiveTask{
			TaskID:           id,
			Kind:             kind,
			Label:            label,
			RemainingSeconds: seconds,
			TotalDuration:    seconds,
		}
	})
}

// TimerPatch carries the fields a tick or pause control may change.
type TimerPatch struct {
	RemainingSeconds *int
	Paused           *bool
}

// UpdateTimer applies a tick or pause patch. No-op without a timer;
// the periodic tick driver lives outside the store.
func (s *Store) UpdateTimer(patch TimerPatch) {
	s.mutate(func(d *model.AppData) {
		if d.ActiveTask == nil {
			return
		}
		active := *d.ActiveTask
		if patch.RemainingSeconds != nil {
			active.RemainingSeconds = *patch.RemainingSeconds
		}
		if patch.Paused != nil {
			active.Paused = *patch.Paused
		}
		d.ActiveTask = &active
	})
}

// FinishTimer logs the timer's full planned duration and clears it
// without completing the underlying task.
func (s *Store) FinishTimer() {
	s.mutateChecked(func(d *model.AppData) {
		if d.ActiveTask == nil {
			return
		}
		s.appendLogLocked(d, d.ActiveTask.Label, d.ActiveTask.TotalDuration)
		d.ActiveTask = nil
	})
}

// CompleteActiveTask logs the elapsed portion of the timer (when
// positive), marks the referenced plan or routine task complete, and
// clears the timer. The routine's own zero-duration log is skipped
// since the elapsed-time entry already covers it.
func (s *Store) CompleteActiveTask() {
	s.mutateChecked(func(d *model.AppData) {
		if d.ActiveTask == nil {
			return
		}
		active := *d.ActiveTask
		if spent := active.TimeSpent(); spent > 0 {
			s.appendLogLocked(d, active.Label, spent)
		}
		switch active.Kind {
		case model.TimerKindPlan:
			s.markTaskCompleteLocked(d, active.TaskID)
		case model.TimerKindRoutine:
			s.markRoutineCompleteLocked(d, active.TaskID)
		}
		d.ActiveTask = nil
	})
}

// ExtendTimer adds minutes to both remaining and total and unpauses.
// No-op without an active timer.
func (s *Store) ExtendTimer(minutes int) {
	s.mutate(func(d *model.AppData) {
		if d.ActiveTask == nil {
			return
		}
		active := *d.ActiveTask
		extra := minutes * 60
		active.RemainingSeconds += extra
		active.TotalDuration += extra
		active.Paused = false
		d.ActiveTask = &active
	})
}
