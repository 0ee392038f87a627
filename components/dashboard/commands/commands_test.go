package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

type stubService struct {
	calls      map[string]int
	lastPage   string
	lastValues datatable.Values
	lastField  string
	lastIndex  int
	lastEntity string
	lastID     int
	lastAction dashboard.ActionRequest
	lastCtx    context.Context
	err        error
}

func newStubService() *stubService {
	return &stubService{calls: map[string]int{}}
}

func (s *stubService) ApplyFilters(_ context.Context, _ dashboard.ViewerContext, code string, values datatable.Values) (dashboard.PagePayload, error) {
	s.calls["filter"]++
	s.lastPage, s.lastValues = code, values
	return dashboard.PagePayload{}, s.err
}

func (s *stubService) ResetFilters(_ context.Context, _ dashboard.ViewerContext, code string) (dashboard.PagePayload, error) {
	s.calls["reset"]++
	s.lastPage = code
	return dashboard.PagePayload{}, s.err
}

func (s *stubService) ToggleSort(_ context.Context, _ dashboard.ViewerContext, code, field string) (dashboard.PagePayload, error) {
	s.calls["sort"]++
	s.lastPage, s.lastField = code, field
	return dashboard.PagePayload{}, s.err
}

func (s *stubService) GoToPage(_ context.Context, _ dashboard.ViewerContext, code string, index int) (dashboard.PagePayload, error) {
	s.calls["page"]++
	s.lastPage, s.lastIndex = code, index
	return dashboard.PagePayload{}, s.err
}

func (s *stubService) Reload(_ context.Context, _ dashboard.ViewerContext, code string) (dashboard.PagePayload, error) {
	s.calls["reload"]++
	s.lastPage = code
	return dashboard.PagePayload{}, s.err
}

func (s *stubService) Create(ctx context.Context, _ dashboard.ViewerContext, entity string, data datatable.Record) (datatable.Record, error) {
	s.calls["create"]++
	s.lastEntity, s.lastCtx = entity, ctx
	if s.err != nil {
		return nil, s.err
	}
	out := data.Clone()
	out[datatable.IDField] = 99
	return out, nil
}

func (s *stubService) Update(_ context.Context, _ dashboard.ViewerContext, entity string, id int, data datatable.Record) (datatable.Record, error) {
	s.calls["update"]++
	s.lastEntity, s.lastID = entity, id
	return data, s.err
}

func (s *stubService) Delete(_ context.Context, _ dashboard.ViewerContext, entity string, id int) error {
	s.calls["delete"]++
	s.lastEntity, s.lastID = entity, id
	return s.err
}

func (s *stubService) RunAction(_ context.Context, _ dashboard.ViewerContext, req dashboard.ActionRequest) (dashboard.ActionResult, error) {
	s.calls["action"]++
	s.lastAction = req
	return dashboard.ActionResult{Action: req.Action, Record: datatable.Record{"keyword": req.Target}}, s.err
}

type stubTelemetry struct {
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.events = append(s.events, event)
}

func TestTableCommands(t *testing.T) {
	service := newStubService()
	telemetry := &stubTelemetry{}
	ctx := context.Background()

	if err := NewApplyFiltersCommand(service, telemetry).Execute(ctx, ApplyFiltersInput{
		Page:    dashboard.PageBacklinks,
		Filters: datatable.Values{"doFollow": "true"},
	}); err != nil {
		t.Fatalf("filter Execute returned error: %v", err)
	}
	if service.lastValues["doFollow"] != "true" || service.lastPage != dashboard.PageBacklinks {
		t.Fatalf("expected filters forwarded, got %v on %s", service.lastValues, service.lastPage)
	}
	if err := NewResetFiltersCommand(service, telemetry).Execute(ctx, ResetFiltersInput{Page: dashboard.PageBacklinks}); err != nil {
		t.Fatalf("reset Execute returned error: %v", err)
	}
	if err := NewToggleSortCommand(service, telemetry).Execute(ctx, ToggleSortInput{Page: dashboard.PageKeywords, Field: "difficulty"}); err != nil {
		t.Fatalf("sort Execute returned error: %v", err)
	}
	if service.lastField != "difficulty" {
		t.Fatalf("expected sort field forwarded, got %q", service.lastField)
	}
	if err := NewGoToPageCommand(service, telemetry).Execute(ctx, GoToPageInput{Page: dashboard.PageKeywords, Index: 3}); err != nil {
		t.Fatalf("page Execute returned error: %v", err)
	}
	if service.lastIndex != 3 {
		t.Fatalf("expected index 3, got %d", service.lastIndex)
	}
	if err := NewReloadCommand(service, telemetry).Execute(ctx, ReloadInput{Page: dashboard.PageKeywords}); err != nil {
		t.Fatalf("reload Execute returned error: %v", err)
	}
	for _, key := range []string{"filter", "reset", "sort", "page", "reload"} {
		if service.calls[key] != 1 {
			t.Fatalf("expected one %s call, got %d", key, service.calls[key])
		}
	}
	if len(telemetry.events) != 5 {
		t.Fatalf("expected telemetry per command, got %v", telemetry.events)
	}
}

func TestTableCommandsRequirePage(t *testing.T) {
	service := newStubService()
	if err := NewApplyFiltersCommand(service, nil).Execute(context.Background(), ApplyFiltersInput{}); !errors.Is(err, errMissingPage) {
		t.Fatalf("expected errMissingPage, got %v", err)
	}
	if err := NewToggleSortCommand(service, nil).Execute(context.Background(), ToggleSortInput{Page: "keywords"}); err == nil {
		t.Fatalf("expected missing field to fail")
	}
	if err := NewGoToPageCommand(nil, nil).Execute(context.Background(), GoToPageInput{Page: "keywords"}); err == nil {
		t.Fatalf("expected missing service to fail")
	}
	if len(service.calls) != 0 {
		t.Fatalf("expected no service calls, got %v", service.calls)
	}
}

func TestReloadCommandReturnsLoadError(t *testing.T) {
	service := newStubService()
	service.err = errors.New("offline")
	telemetry := &stubTelemetry{}
	err := NewReloadCommand(service, telemetry).Execute(context.Background(), ReloadInput{Page: "keywords"})
	if !errors.Is(err, service.err) {
		t.Fatalf("expected load error, got %v", err)
	}
	if len(telemetry.events) != 1 {
		t.Fatalf("expected failed reload to be recorded")
	}
}

func TestRecordCommands(t *testing.T) {
	service := newStubService()
	ctx := context.Background()

	var created datatable.Record
	err := NewCreateRecordCommand(service, nil).Execute(ctx, CreateRecordInput{
		Actor:  Actor{ActorID: "actor-1", UserID: "user-1"},
		Entity: store.EntityKeywords,
		Data:   datatable.Record{"keyword": "seo"},
		Result: &created,
	})
	if err != nil {
		t.Fatalf("create Execute returned error: %v", err)
	}
	if id, _ := created.ID(); id != 99 {
		t.Fatalf("expected result to be filled, got %v", created)
	}
	if service.lastCtx == context.Background() {
		t.Fatalf("expected activity context to be attached")
	}

	var updated datatable.Record
	if err := NewUpdateRecordCommand(service, nil).Execute(ctx, UpdateRecordInput{
		Entity: store.EntityKeywords, ID: 99, Data: datatable.Record{"difficulty": 10}, Result: &updated,
	}); err != nil {
		t.Fatalf("update Execute returned error: %v", err)
	}
	if updated["difficulty"] != 10 || service.lastID != 99 {
		t.Fatalf("unexpected update forwarding %v / %d", updated, service.lastID)
	}
	if err := NewUpdateRecordCommand(service, nil).Execute(ctx, UpdateRecordInput{Entity: store.EntityKeywords}); err == nil {
		t.Fatalf("expected missing id to fail")
	}

	if err := NewDeleteRecordCommand(service, nil).Execute(ctx, DeleteRecordInput{Entity: store.EntityKeywords, ID: 99}); err != nil {
		t.Fatalf("delete Execute returned error: %v", err)
	}
	if service.calls["delete"] != 1 {
		t.Fatalf("expected delete call")
	}
}

func TestRunActionCommand(t *testing.T) {
	service := newStubService()
	var result dashboard.ActionResult
	err := NewRunActionCommand(service, nil).Execute(context.Background(), RunActionInput{
		Request: dashboard.ActionRequest{Page: dashboard.PageRankTracker, Action: dashboard.ActionTrackKeyword, Target: "seo"},
		Result:  &result,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Action != dashboard.ActionTrackKeyword || result.Record["keyword"] != "seo" {
		t.Fatalf("unexpected result %+v", result)
	}
	if err := NewRunActionCommand(service, nil).Execute(context.Background(), RunActionInput{}); err == nil {
		t.Fatalf("expected missing action to fail")
	}
}

func TestSeedDashboardCommand(t *testing.T) {
	service, err := dashboard.Bootstrap(context.Background(), dashboard.BootstrapOptions{
		Analyzer: store.AnalyzerOptions{Seed: 3},
	})
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	telemetry := &stubTelemetry{}
	cmd := NewSeedDashboardCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), SeedDashboardInput{Keywords: []string{"only one"}}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	rankings, _ := service.List(context.Background(), store.EntityRankings)
	if len(rankings) != 1 {
		t.Fatalf("expected custom keyword list, got %d rankings", len(rankings))
	}
	competitors, _ := service.List(context.Background(), store.EntityCompetitors)
	if len(competitors) != len(dashboard.DefaultSeedRequest().Competitors) {
		t.Fatalf("expected default competitors, got %d", len(competitors))
	}
	if len(telemetry.events) != 1 {
		t.Fatalf("expected telemetry to record seed")
	}
	if err := NewSeedDashboardCommand(nil, nil).Execute(context.Background(), SeedDashboardInput{}); err == nil {
		t.Fatalf("expected missing service to fail")
	}
}
