package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
	"github.com/goliatone/go-seo-dashboard/pkg/activity"
	"github.com/goliatone/go-seo-dashboard/pkg/logger"
)

var (
	errMissingRepositories = errors.New("dashboard: repositories not configured")
	errMissingAnalyzer     = errors.New("dashboard: analyzer not configured")
)

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap the mock data layer for a remote one.
type Options struct {
	Repositories   RepositorySource
	Analyzer       Analyzer
	Pages          PageRegistry
	Sessions       SessionStore
	Validator      RecordValidator
	Notifier       NotificationHook
	Charts         *ChartRenderer
	Telemetry      Telemetry
	ActivityHooks  activity.Hooks
	ActivityConfig activity.Config
	Translator     TranslationService
	Theme          ThemeProvider
	Logger         logger.Logger
	Clock          func() time.Time
}

// Service orchestrates the dashboard pages: per-viewer table state, record
// mutations and the analysis actions.
type Service struct {
	opts     Options
	activity *activity.Emitter
	log      logger.Logger

	cronMu sync.Mutex
	cron   *cron.Cron
}

// NewService builds a Service instance with safe defaults. Without a page
// registry the embedded manifest is loaded.
func NewService(opts Options) (*Service, error) {
	if opts.Repositories == nil {
		return nil, errMissingRepositories
	}
	if opts.Pages == nil {
		registry, err := NewRegistry()
		if err != nil {
			return nil, err
		}
		opts.Pages = registry
	}
	if opts.Sessions == nil {
		opts.Sessions = NewInMemorySessionStore()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotificationHook{}
	}
	if opts.Charts == nil {
		opts.Charts = NewChartRenderer(WithChartTranslator(opts.Translator))
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = logger.Normalize(opts.Logger)
	return &Service{
		opts:     opts,
		activity: activity.NewEmitter(opts.ActivityHooks, opts.ActivityConfig),
		log:      opts.Logger.With("component", "dashboard"),
	}, nil
}

// Pages returns the navigation entries in display order.
func (s *Service) Pages(viewer ViewerContext) []PageSummary {
	return s.navigation(viewer, "")
}

// Page returns the payload of a page, loading its records on first access.
// Load failures are reported through the payload error panel.
func (s *Service) Page(ctx context.Context, viewer ViewerContext, code string) (PagePayload, error) {
	return s.withController(ctx, viewer, code, nil)
}

// ApplyFilters replaces the filter values of a page and returns to page 1.
func (s *Service) ApplyFilters(ctx context.Context, viewer ViewerContext, code string, values datatable.Values) (PagePayload, error) {
	return s.withController(ctx, viewer, code, func(ctrl *PageController) error {
		ctrl.ApplyFilters(values)
		s.recordTelemetry(ctx, "dashboard.page.filter", map[string]any{"page": code, "filters": len(values)})
		return nil
	})
}

// SetFilter changes a single filter value and returns to page 1.
func (s *Service) SetFilter(ctx context.Context, viewer ViewerContext, code, key, value string) (PagePayload, error) {
	return s.withController(ctx, viewer, code, func(ctrl *PageController) error {
		ctrl.SetFilter(key, value)
		s.recordTelemetry(ctx, "dashboard.page.filter", map[string]any{"page": code, "key": key})
		return nil
	})
}

// ResetFilters clears every filter of a page.
func (s *Service) ResetFilters(ctx context.Context, viewer ViewerContext, code string) (PagePayload, error) {
	return s.withController(ctx, viewer, code, func(ctrl *PageController) error {
		ctrl.ResetFilters()
		s.recordTelemetry(ctx, "dashboard.page.reset_filters", map[string]any{"page": code})
		return nil
	})
}

// ToggleSort sorts by field, flipping the direction when it is already active.
func (s *Service) ToggleSort(ctx context.Context, viewer ViewerContext, code, field string) (PagePayload, error) {
	return s.withController(ctx, viewer, code, func(ctrl *PageController) error {
		if _, err := ctrl.ToggleSort(field); err != nil {
			return err
		}
		s.recordTelemetry(ctx, "dashboard.page.sort", map[string]any{"page": code, "field": field})
		return nil
	})
}

// GoToPage moves to page index, clamped to the available pages.
func (s *Service) GoToPage(ctx context.Context, viewer ViewerContext, code string, index int) (PagePayload, error) {
	return s.withController(ctx, viewer, code, func(ctrl *PageController) error {
		ctrl.GoToPage(index)
		return nil
	})
}

// Reload refetches the page records. A failed reload keeps the error panel
// on the page and returns the error.
func (s *Service) Reload(ctx context.Context, viewer ViewerContext, code string) (PagePayload, error) {
	var loadErr error
	payload, err := s.withController(ctx, viewer, code, func(ctrl *PageController) error {
		loadErr = s.load(ctx, viewer, ctrl)
		return nil
	})
	if err != nil {
		return payload, err
	}
	return payload, loadErr
}

// Theme resolves the theme for viewer, falling back to DefaultTheme.
func (s *Service) Theme(ctx context.Context, viewer ViewerContext) *ThemeSelection {
	if s.opts.Theme != nil {
		selection, err := s.opts.Theme.SelectTheme(ctx, viewer)
		if err != nil {
			s.log.Warn("theme selection failed", "error", err)
		} else if selection != nil {
			return cloneThemeSelection(selection)
		}
	}
	return DefaultTheme()
}

// ResetSession drops every page state of viewer.
func (s *Service) ResetSession(ctx context.Context, viewer ViewerContext) error {
	return s.opts.Sessions.Reset(ctx, viewer)
}

func (s *Service) withController(ctx context.Context, viewer ViewerContext, code string, fn func(*PageController) error) (PagePayload, error) {
	sess, ctrl, err := s.controller(ctx, viewer, code)
	if err != nil {
		return PagePayload{}, err
	}
	if !ctrl.Loaded() && ctrl.Error() == nil {
		_ = s.load(ctx, viewer, ctrl)
	}
	if fn != nil {
		if err := fn(ctrl); err != nil {
			return PagePayload{}, err
		}
	}
	return s.payload(ctx, viewer, sess, ctrl), nil
}

func (s *Service) controller(ctx context.Context, viewer ViewerContext, code string) (*Session, *PageController, error) {
	def, ok := s.opts.Pages.Page(code)
	if !ok {
		return nil, nil, &store.Error{Kind: store.ErrNotFound, Entity: "page", Message: code}
	}
	repo, err := s.opts.Repositories.Repository(def.Entity)
	if err != nil {
		return nil, nil, err
	}
	sess, err := s.opts.Sessions.Session(ctx, viewer)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard: resolve session: %w", err)
	}
	return sess, sess.Controller(def, repo), nil
}

// load runs a controller load. Stale completions are ignored; failures raise
// an error notification and leave the error panel on the controller.
func (s *Service) load(ctx context.Context, viewer ViewerContext, ctrl *PageController) error {
	code := ctrl.Definition().Code
	started := time.Now()
	applied, err := ctrl.Load(ctx)
	if !applied {
		s.log.Debug("discarded stale load", "page", code)
		return nil
	}
	s.recordTelemetry(ctx, "dashboard.page.load", map[string]any{
		"page":        code,
		"duration_ms": time.Since(started).Milliseconds(),
		"failed":      err != nil,
	})
	if err != nil {
		return s.fail(ctx, viewer, code, "load", "Failed to load "+strings.ToLower(ctrl.Definition().Title), err)
	}
	return nil
}

func (s *Service) payload(ctx context.Context, viewer ViewerContext, sess *Session, ctrl *PageController) PagePayload {
	def := ctrl.Definition()
	records := ctrl.Records()
	var domain datatable.Record
	if def.Metrics == "overview" {
		domain = s.currentDomain(ctx, sess)
	}
	summary := def.Summary(viewer.Locale)
	summary.Active = true
	return PagePayload{
		Page:       summary,
		View:       ctrl.View(),
		Filters:    def.Filters,
		Actions:    def.Actions,
		Metrics:    ComputeMetrics(def.Metrics, records, domain),
		Charts:     s.renderCharts(ctx, viewer, def, records, domain),
		Domain:     domain,
		Error:      ctrl.Error(),
		Navigation: s.navigation(viewer, def.Code),
		Theme:      s.Theme(ctx, viewer),
	}
}

// currentDomain returns the domain analyzed in this session or, before any
// analysis, the first tracked domain.
func (s *Service) currentDomain(ctx context.Context, sess *Session) datatable.Record {
	if domain := sess.Domain(); domain != nil {
		return domain
	}
	repo, err := s.opts.Repositories.Repository(store.EntityDomains)
	if err != nil {
		return nil
	}
	domains, err := repo.GetAll(ctx)
	if err != nil || len(domains) == 0 {
		return nil
	}
	return domains[0]
}

func (s *Service) renderCharts(ctx context.Context, viewer ViewerContext, def PageDefinition, records []datatable.Record, domain datatable.Record) []Chart {
	specs := BuildChartSpecs(def.Charts, records, domain)
	if len(specs) == 0 {
		return nil
	}
	out := make([]Chart, 0, len(specs))
	for _, spec := range specs {
		chart, err := s.opts.Charts.Render(ctx, viewer, spec)
		if err != nil {
			s.log.Warn("chart render failed", "page", def.Code, "chart", spec.Key, "error", err)
			continue
		}
		out = append(out, chart)
	}
	return out
}

func (s *Service) navigation(viewer ViewerContext, active string) []PageSummary {
	pages := s.opts.Pages.Pages()
	out := make([]PageSummary, len(pages))
	for i, def := range pages {
		out[i] = def.Summary(viewer.Locale)
		out[i].Active = def.Code == active
	}
	return out
}

// fail reports err to the viewer as an error notification and returns it.
// message is the user-facing text; the error itself is logged.
func (s *Service) fail(ctx context.Context, viewer ViewerContext, page, action, message string, err error) error {
	s.log.Error("dashboard operation failed", "page", page, "action", action, "error", err)
	s.recordTelemetry(ctx, "dashboard.error", map[string]any{"page": page, "action": action})
	if message == "" {
		message = err.Error()
	}
	s.notify(ctx, viewer, LevelError, page, action, message)
	return err
}

func (s *Service) notify(ctx context.Context, viewer ViewerContext, level NotificationLevel, page, action, message string) {
	n := NewNotification(level, page, action, message)
	n.UserID = viewer.UserID
	if err := s.opts.Notifier.Notify(ctx, n); err != nil {
		s.log.Warn("notification delivery failed", "error", err)
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func (s *Service) emitActivity(ctx context.Context, viewer ViewerContext, verb, objectType string, id int, metadata map[string]any) {
	if !s.activity.Enabled() {
		return
	}
	meta := resolveActivity(ctx, viewer)
	evt := activity.Event{
		Verb:       verb,
		ActorID:    meta.ActorID,
		UserID:     meta.UserID,
		TenantID:   meta.TenantID,
		ObjectType: objectType,
		Metadata:   metadata,
	}
	if id > 0 {
		evt.ObjectID = fmt.Sprint(id)
	}
	if err := s.activity.Emit(ctx, evt); err != nil {
		s.log.Warn("activity emit failed", "verb", verb, "error", err)
	}
}

func (s *Service) repository(entity string) (store.Repository, error) {
	return s.opts.Repositories.Repository(entity)
}

func (s *Service) analyzer() (Analyzer, error) {
	if s.opts.Analyzer == nil {
		return nil, errMissingAnalyzer
	}
	return s.opts.Analyzer, nil
}

// syncControllers applies fn to every page of viewer that displays entity.
func (s *Service) syncControllers(ctx context.Context, viewer ViewerContext, entity string, fn func(*PageController)) {
	sess, err := s.opts.Sessions.Session(ctx, viewer)
	if err != nil {
		s.log.Warn("session lookup failed", "error", err)
		return
	}
	for _, ctrl := range sess.ControllersFor(entity) {
		fn(ctrl)
	}
}
