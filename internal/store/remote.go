package store

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/planr/internal/api"
	"github.com/sandeepkv93/planr/internal/model"
	"github.com/sandeepkv93/planr/internal/page"
)

// UpdateDashboardLayout applies the arrangement locally, then saves it
// server-side fire-and-forget.
func (s *Store) UpdateDashboardLayout(layout model.DashboardLayout) {
	s.mutate(func(d *model.AppData) {
		d.DashboardLayout = layout
	})
	s.dispatch("save dashboard layout", func(ctx context.Context) error {
		return s.svc.SaveDashboardLayout(ctx, layout)
	})
}

// SubscribeToPush records the subscription locally and registers it
// server-side fire-and-forget.
func (s *Store) SubscribeToPush(sub api.PushSubscription) {
	s.mutate(func(d *model.AppData) {
		d.Push = model.PushState{Subscribed: true, EndpointRef: sub.EndpointRef}
	})
	s.dispatch("subscribe to push", func(ctx context.Context) error {
		return s.svc.SubscribeToPush(ctx, sub)
	})
}

func (s *Store) UnsubscribeFromPush() {
	var endpoint string
	s.mutate(func(d *model.AppData) {
		endpoint = d.Push.EndpointRef
		d.Push = model.PushState{}
	})
	if endpoint == "" {
		return
	}
	s.dispatch("unsubscribe from push", func(ctx context.Context) error {
		return s.svc.UnsubscribeFromPush(ctx, endpoint)
	})
}

// RequestExport asks the service to materialize an export. The job
// record appears asynchronously via the live feed or a later fetch;
// there is no optimistic local job.
func (s *Store) RequestExport(format model.ExportFormat) {
	s.dispatch("request export", func(ctx context.Context) error {
		return s.svc.RequestExport(ctx, format)
	})
}

// FetchTimeAnalytics loads the server-side aggregation synchronously.
func (s *Store) FetchTimeAnalytics(ctx context.Context) error {
	analytics, err := s.svc.TimeAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("fetch time analytics: %w", err)
	}
	s.mutate(func(d *model.AppData) {
		d.TimeAnalytics = &analytics
	})
	return nil
}

// SetReflectionSearch records a new search filter. When it changed,
// the held page is stale and the caller should refetch uncursored;
// debouncing (~300ms) is the caller's responsibility.
func (s *Store) SetReflectionSearch(search string) bool {
	return s.reflectionPages.SetFilter(search)
}

// FetchReflections loads one page: an empty cursor replaces the held
// collection, a cursor appends. A response superseded by a filter
// change or newer fresh load is dropped unmerged.
func (s *Store) FetchReflections(ctx context.Context, cursor string) error {
	token := s.reflectionPages.Begin(cursor)
	resp, err := s.svc.FetchReflections(ctx, api.ReflectionQuery{Cursor: cursor, Search: token.Filter})
	if err != nil {
		return fmt.Errorf("fetch reflections: %w", err)
	}
	if !s.reflectionPages.Accept(token) {
		return nil
	}
	s.mutate(func(d *model.AppData) {
		d.Reflections.Items = page.Merge(d.Reflections.Items, resp.Reflections, cursor,
			func(r model.Reflection) string { return r.Date })
		d.Reflections.NextCursor = resp.NextCursor
	})
	return nil
}

// FetchExports mirrors FetchReflections for the export-job collection.
func (s *Store) FetchExports(ctx context.Context, cursor string) error {
	token := s.exportPages.Begin(cursor)
	resp, err := s.svc.FetchExports(ctx, cursor)
	if err != nil {
		return fmt.Errorf("fetch exports: %w", err)
	}
	if !s.exportPages.Accept(token) {
		return nil
	}
	s.mutate(func(d *model.AppData) {
		d.Exports.Items = page.Merge(d.Exports.Items, resp.Jobs, cursor,
			func(j model.ExportJob) string { return j.ID })
		d.Exports.NextCursor = resp.NextCursor
	})
	return nil
}

// SetTwoFactor replaces the 2FA slice of state; the session manager
// drives it through the enrollment flow.
func (s *Store) SetTwoFactor(setup model.TwoFactorSetup) {
	s.mutate(func(d *model.AppData) {
		d.TwoFactor = setup
	})
}

// ApplyExportUpdate handles a pushed job-status event: the matching
// job in the held page is replaced in place, preserving order and
// size. Updates for jobs outside the held page are dropped silently,
// and duplicate delivery is an idempotent no-op.
func (s *Store) ApplyExportUpdate(job model.ExportJob) {
	s.mutate(func(d *model.AppData) {
		for i, held := range d.Exports.Items {
			if held.ID == job.ID {
				d.Exports.Items[i] = job
				return
			}
		}
	})
}
