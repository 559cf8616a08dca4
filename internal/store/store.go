// Package store is the single authoritative in-memory state store: it
// owns every domain collection, applies synchronous local mutations,
// recomputes derived state, and merges asynchronous server data.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/derive"
	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/page"
)

// Store serializes all mutations behind one mutex: the TUI is a single
// writer, but fire-and-forget completions and live-feed events arrive
// on other goroutines and funnel through the same path. Observers
// never see a partially applied mutation.
type Store struct {
	mu   sync.Mutex
	data model.AppData

	svc    api.Service
	logger *slog.Logger
	now    func() time.Time

	dispatchTimeout time.Duration

	reflectionPages *page.Controller
	exportPages     *page.Controller

	subMu       sync.Mutex
	subscribers map[int]func()
	nextSubID   int
}

func New(svc api.Service, logger *slog.Logger, now func() time.Time) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	s := &Store{
		svc:             svc,
		logger:          logger,
		now:             now,
		dispatchTimeout: 10 * time.Second,
		reflectionPages: page.NewController(),
		exportPages:     page.NewController(),
		subscribers:     make(map[int]func()),
	}
	s.data = model.NewAppData(s.today())
	return s
}

func (s *Store) today() string {
	return model.DateString(s.now())
}

func newID() string {
	return uuid.NewString()
}

// Subscribe registers an observer notified after every committed
// mutation. Returns an unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Data returns a snapshot of the current state. Top-level collections
// are cloned; mutators never edit nested slices in place, so the
// snapshot is safe for concurrent reads.
func (s *Store) Data() model.AppData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneData(s.data)
}

func cloneData(d model.AppData) model.AppData {
	out := d
	out.Plan.Tasks = append([]model.Task(nil), d.Plan.Tasks...)
	out.Logs = append([]model.LogEntry(nil), d.Logs...)
	out.Goals = append([]model.Goal(nil), d.Goals...)
	out.Routine = append([]model.RoutineTask(nil), d.Routine...)
	out.UnplannedTasks = append([]model.UnplannedTask(nil), d.UnplannedTasks...)
	out.Reflections.Items = append([]model.Reflection(nil), d.Reflections.Items...)
	out.PerformanceHistory = append([]model.PerformanceRecord(nil), d.PerformanceHistory...)
	out.UnlockedAchievements = append([]string(nil), d.UnlockedAchievements...)
	out.Shutdown.UnfinishedTasks = append([]model.Task(nil), d.Shutdown.UnfinishedTasks...)
	out.Exports.Items = append([]model.ExportJob(nil), d.Exports.Items...)
	if d.ActiveTask != nil {
		active := *d.ActiveTask
		out.ActiveTask = &active
	}
	return out
}

// mutate runs fn under the store lock and notifies observers.
func (s *Store) mutate(fn func(*model.AppData)) {
	s.mu.Lock()
	fn(&s.data)
	s.mu.Unlock()
	s.notify()
}

// mutateChecked additionally runs the achievement pass against the
// post-mutation state inside the same logical step. Every mutator that
// touches task, routine, goal or log state goes through here.
func (s *Store) mutateChecked(fn func(*model.AppData)) {
	s.mu.Lock()
	fn(&s.data)
	s.checkAchievementsLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) checkAchievementsLocked() {
	fresh := derive.NewlyUnlocked(s.data)
	if len(fresh) == 0 {
		return
	}
	s.data.UnlockedAchievements = append(s.data.UnlockedAchievements, fresh...)
}

// CheckAchievements runs one explicit achievement pass, used right
// after a bootstrap snapshot lands.
func (s *Store) CheckAchievements() {
	s.mu.Lock()
	s.checkAchievementsLocked()
	s.mu.Unlock()
	s.notify()
}

// ReplaceData swaps in a full server snapshot (login/bootstrap), then
// normalizes it for the current day.
func (s *Store) ReplaceData(data model.AppData) {
	s.mu.Lock()
	s.data = data
	s.ensureTodayLocked()
	s.mu.Unlock()
	s.notify()
}

// Reset restores the empty defaults (logout).
func (s *Store) Reset() {
	s.mu.Lock()
	s.data = model.NewAppData(s.today())
	s.reflectionPages.Reset()
	s.exportPages.Reset()
	s.mu.Unlock()
	s.notify()
}

// EnsureToday applies client-side day rollover: when the held plan's
// date is not today, the plan is recreated empty for today and routine
// completion flags are cleared.
func (s *Store) EnsureToday() {
	s.mu.Lock()
	changed := s.ensureTodayLocked()
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Store) ensureTodayLocked() bool {
	today := s.today()
	if s.data.Plan.Date == today {
		return false
	}
	s.data.Plan = model.Plan{Date: today}
	routine := make([]model.RoutineTask, len(s.data.Routine))
	for i, r := range s.data.Routine {
		r.Completed = false
		routine[i] = r
	}
	s.data.Routine = routine
	return true
}

// dispatch runs a fire-and-forget network call on its own goroutine.
// Failures are logged and never surfaced or rolled back: the
// optimistic local state wins.
func (s *Store) dispatch(op string, call func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()
		if err := call(ctx); err != nil {
			s.logger.Warn("fire-and-forget call failed", "op", op, "error", err)
		}
	}()
}

// ToggleTheme flips between light and dark.
func (s *Store) ToggleTheme() {
	s.mutate(func(d *model.AppData) {
		if d.Theme == model.ThemeLight {
			d.Theme = model.ThemeDark
		} else {
			d.Theme = model.ThemeLight
		}
	})
}
