package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/model"
)

// loggedInStore builds a store over a Memory service with an
// authenticated session, seeded with count export jobs.
func loggedInStore(t *testing.T, exportCount int) (*Store, *api.Memory) {
	t.Helper()
	svc := api.NewMemory(nil, testClock)
	if _, err := svc.Login(context.Background(), api.SeedEmail, api.SeedPassword, ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	for i := 0; i < exportCount; i++ {
		if err := svc.RequestExport(context.Background(), model.ExportFormatJSON); err != nil {
			t.Fatalf("request export: %v", err)
		}
	}
	return New(svc, slog.Default(), testClock), svc
}

func TestFetchExportsReplaceThenAppend(t *testing.T) {
	s, _ := loggedInStore(t, 7)

	if err := s.FetchExports(context.Background(), ""); err != nil {
		t.Fatalf("fetch exports: %v", err)
	}
	first := s.Data().Exports
	if len(first.Items) != 5 || first.NextCursor == "" {
		t.Fatalf("expected full first page with cursor, got %d items cursor=%q", len(first.Items), first.NextCursor)
	}

	if err := s.FetchExports(context.Background(), first.NextCursor); err != nil {
		t.Fatalf("fetch exports page 2: %v", err)
	}
	merged := s.Data().Exports
	if len(merged.Items) != 7 {
		t.Fatalf("expected 7 items after append, got %d", len(merged.Items))
	}
	if merged.NextCursor != "" {
		t.Fatalf("expected end of collection, got cursor %q", merged.NextCursor)
	}
	seen := make(map[string]bool)
	for _, job := range merged.Items {
		if seen[job.ID] {
			t.Fatalf("duplicate job %s after append", job.ID)
		}
		seen[job.ID] = true
	}

	// A fresh uncursored fetch replaces the held list.
	if err := s.FetchExports(context.Background(), ""); err != nil {
		t.Fatalf("fresh fetch: %v", err)
	}
	if got := len(s.Data().Exports.Items); got != 5 {
		t.Fatalf("expected fresh load to replace with page of 5, got %d", got)
	}
}

func TestFetchReflectionsSearchRestarts(t *testing.T) {
	svc := api.NewMemory(nil, testClock)
	svc.SeedReflections(api.SeedEmail, []model.Reflection{
		{Date: "2026-03-06", Well: "shipped the launch", Improve: "a"},
		{Date: "2026-03-05", Well: "quiet day", Improve: "b"},
	})
	if _, err := svc.Login(context.Background(), api.SeedEmail, api.SeedPassword, ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	s := New(svc, slog.Default(), testClock)

	if err := s.FetchReflections(context.Background(), ""); err != nil {
		t.Fatalf("fetch reflections: %v", err)
	}
	if got := len(s.Data().Reflections.Items); got != 2 {
		t.Fatalf("expected 2 reflections, got %d", got)
	}

	if changed := s.SetReflectionSearch("launch"); !changed {
		t.Fatal("expected filter change to register")
	}
	if err := s.FetchReflections(context.Background(), ""); err != nil {
		t.Fatalf("filtered fetch: %v", err)
	}
	items := s.Data().Reflections.Items
	if len(items) != 1 || items[0].Date != "2026-03-06" {
		t.Fatalf("expected filtered single result, got %v", items)
	}
}

// hookedService lets a test interleave a mutation while a fetch is in
// flight, simulating a filter change racing a slow response.
type hookedService struct {
	api.Service
	beforeReturn func()
}

func (h *hookedService) FetchReflections(ctx context.Context, query api.ReflectionQuery) (api.ReflectionsPage, error) {
	page, err := h.Service.FetchReflections(ctx, query)
	if h.beforeReturn != nil {
		h.beforeReturn()
	}
	return page, err
}

func TestFetchReflectionsStaleResponseDropped(t *testing.T) {
	svc := api.NewMemory(nil, testClock)
	svc.SeedReflections(api.SeedEmail, []model.Reflection{
		{Date: "2026-03-06", Well: "old result", Improve: "a"},
	})
	if _, err := svc.Login(context.Background(), api.SeedEmail, api.SeedPassword, ""); err != nil {
		t.Fatalf("login: %v", err)
	}

	hooked := &hookedService{Service: svc}
	s := New(hooked, slog.Default(), testClock)

	// The filter changes while the uncursored fetch is outstanding, so
	// its page must be discarded unmerged.
	hooked.beforeReturn = func() {
		hooked.beforeReturn = nil
		s.SetReflectionSearch("something else")
	}
	if err := s.FetchReflections(context.Background(), ""); err != nil {
		t.Fatalf("fetch reflections: %v", err)
	}
	if got := len(s.Data().Reflections.Items); got != 0 {
		t.Fatalf("expected stale page dropped, got %d items", got)
	}
}

func TestApplyExportUpdateReplacesInPlace(t *testing.T) {
	s, _ := loggedInStore(t, 3)
	if err := s.FetchExports(context.Background(), ""); err != nil {
		t.Fatalf("fetch exports: %v", err)
	}
	held := s.Data().Exports.Items
	target := held[1]

	updated := target
	updated.Status = model.ExportStatusComplete
	updated.DownloadRef = "https://exports.example.com/done"
	s.ApplyExportUpdate(updated)

	after := s.Data().Exports.Items
	if len(after) != len(held) {
		t.Fatalf("expected size preserved, got %d -> %d", len(held), len(after))
	}
	for i := range after {
		if after[i].ID != held[i].ID {
			t.Fatal("expected order preserved")
		}
	}
	if after[1].Status != model.ExportStatusComplete || after[1].DownloadRef == "" {
		t.Fatalf("expected in-place replacement, got %+v", after[1])
	}

	// Duplicate delivery is idempotent.
	s.ApplyExportUpdate(updated)
	if got := s.Data().Exports.Items[1]; got != updated {
		t.Fatalf("expected idempotent re-apply, got %+v", got)
	}
}

func TestApplyExportUpdateUnknownIDDropped(t *testing.T) {
	s, _ := loggedInStore(t, 2)
	if err := s.FetchExports(context.Background(), ""); err != nil {
		t.Fatalf("fetch exports: %v", err)
	}
	before := s.Data().Exports.Items

	s.ApplyExportUpdate(model.ExportJob{
		ID:     "exp-evicted",
		Format: model.ExportFormatJSON,
		Status: model.ExportStatusComplete,
	})

	after := s.Data().Exports.Items
	if len(after) != len(before) {
		t.Fatalf("expected no insertion for unknown id, got %d -> %d", len(before), len(after))
	}
	for i := range after {
		if after[i] != before[i] {
			t.Fatal("expected nothing observable to change")
		}
	}
}

// failingService rejects every network call, for verifying that
// optimistic local state survives fire-and-forget failures.
type failingService struct {
	api.Service
	called chan string
}

func (f *failingService) SaveDashboardLayout(ctx context.Context, layout model.DashboardLayout) error {
	f.called <- "layout"
	return context.DeadlineExceeded
}

func (f *failingService) SubscribeToPush(ctx context.Context, sub api.PushSubscription) error {
	f.called <- "push"
	return context.DeadlineExceeded
}

func TestUpdateDashboardLayoutOptimistic(t *testing.T) {
	svc := &failingService{Service: api.NewMemory(nil, testClock), called: make(chan string, 2)}
	s := New(svc, slog.Default(), testClock)

	layout := model.DashboardLayout{Left: []string{"TodaysPlan"}, Right: []string{"MyGoals"}}
	s.UpdateDashboardLayout(layout)

	if got := s.Data().DashboardLayout; len(got.Left) != 1 || got.Left[0] != "TodaysPlan" {
		t.Fatalf("expected local layout applied immediately, got %+v", got)
	}

	select {
	case op := <-svc.called:
		if op != "layout" {
			t.Fatalf("expected layout dispatch, got %q", op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the save to be dispatched")
	}

	// The network failure never rolls the local state back.
	time.Sleep(20 * time.Millisecond)
	if got := s.Data().DashboardLayout; len(got.Left) != 1 {
		t.Fatalf("expected layout to survive dispatch failure, got %+v", got)
	}
}

func TestPushSubscriptionOptimistic(t *testing.T) {
	svc := &failingService{Service: api.NewMemory(nil, testClock), called: make(chan string, 2)}
	s := New(svc, slog.Default(), testClock)

	s.SubscribeToPush(api.PushSubscription{EndpointRef: "ep-1"})
	if got := s.Data().Push; !got.Subscribed || got.EndpointRef != "ep-1" {
		t.Fatalf("expected local subscription state, got %+v", got)
	}

	select {
	case <-svc.called:
	case <-time.After(2 * time.Second):
		t.Fatal("expected the subscribe to be dispatched")
	}

	s.UnsubscribeFromPush()
	if got := s.Data().Push; got.Subscribed || got.EndpointRef != "" {
		t.Fatalf("expected cleared push state, got %+v", got)
	}
}

func TestRequestExportCreatesServerSideJob(t *testing.T) {
	s, svc := loggedInStore(t, 0)
	s.RequestExport(model.ExportFormatCSV)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		page, err := svc.FetchExports(context.Background(), "")
		if err != nil {
			t.Fatalf("fetch exports: %v", err)
		}
		if len(page.Jobs) == 1 {
			if page.Jobs[0].Status != model.ExportStatusPending {
				t.Fatalf("expected pending job, got %q", page.Jobs[0].Status)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for dispatched export request")
}

func TestFetchTimeAnalytics(t *testing.T) {
	svc := api.NewMemory(nil, testClock)
	svc.SeedAnalytics(api.SeedEmail, model.TimeAnalytics{
		ByGoal: []model.AnalyticsSlice{{Label: "learn go", Seconds: 3600}},
		ByTag:  []model.AnalyticsSlice{{Label: "work", Seconds: 1800}},
	})
	if _, err := svc.Login(context.Background(), api.SeedEmail, api.SeedPassword, ""); err != nil {
		t.Fatalf("login: %v", err)
	}
	s := New(svc, slog.Default(), testClock)

	if err := s.FetchTimeAnalytics(context.Background()); err != nil {
		t.Fatalf("fetch analytics: %v", err)
	}
	analytics := s.Data().TimeAnalytics
	if analytics == nil || len(analytics.ByGoal) != 1 || analytics.ByGoal[0].Seconds != 3600 {
		t.Fatalf("expected seeded analytics, got %+v", analytics)
	}
}
