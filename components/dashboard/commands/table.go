package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

var errMissingPage = errors.New("table command requires page code")

type TableService interface {
	ApplyFilters(ctx context.Context, viewer dashboard.ViewerContext, code string, values datatable.Values) (dashboard.PagePayload, error)
	ResetFilters(ctx context.Context, viewer dashboard.ViewerContext, code string) (dashboard.PagePayload, error)
	ToggleSort(ctx context.Context, viewer dashboard.ViewerContext, code, field string) (dashboard.PagePayload, error)
	GoToPage(ctx context.Context, viewer dashboard.ViewerContext, code string, index int) (dashboard.PagePayload, error)
	Reload(ctx context.Context, viewer dashboard.ViewerContext, code string) (dashboard.PagePayload, error)
}

// ApplyFiltersInput replaces the filters of a page.
type ApplyFiltersInput struct {
	Viewer  dashboard.ViewerContext `json:"-"`
	Page    string                  `json:"page"`
	Filters datatable.Values        `json:"filters"`
}

// ApplyFiltersCommand wraps Service.ApplyFilters.
type ApplyFiltersCommand struct {
	service   TableService
	telemetry Telemetry
}

// NewApplyFiltersCommand creates the command.
func NewApplyFiltersCommand(service TableService, telemetry Telemetry) *ApplyFiltersCommand {
	return &ApplyFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplyFiltersInput] = (*ApplyFiltersCommand)(nil)

// Execute applies the filters and returns the page to index 1.
func (c *ApplyFiltersCommand) Execute(ctx context.Context, msg ApplyFiltersInput) error {
	if c.service == nil {
		return errors.New("filter command requires service")
	}
	if msg.Page == "" {
		return errMissingPage
	}
	if _, err := c.service.ApplyFilters(ctx, msg.Viewer, msg.Page, msg.Filters); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.filter", map[string]any{
		"page":    msg.Page,
		"filters": len(msg.Filters.Active()),
	})
	return nil
}

// ResetFiltersInput clears the filters of a page.
type ResetFiltersInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Page   string                  `json:"page"`
}

// ResetFiltersCommand wraps Service.ResetFilters.
type ResetFiltersCommand struct {
	service   TableService
	telemetry Telemetry
}

// NewResetFiltersCommand creates the command.
func NewResetFiltersCommand(service TableService, telemetry Telemetry) *ResetFiltersCommand {
	return &ResetFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetFiltersInput] = (*ResetFiltersCommand)(nil)

// Execute clears every filter value.
func (c *ResetFiltersCommand) Execute(ctx context.Context, msg ResetFiltersInput) error {
	if c.service == nil {
		return errors.New("reset command requires service")
	}
	if msg.Page == "" {
		return errMissingPage
	}
	if _, err := c.service.ResetFilters(ctx, msg.Viewer, msg.Page); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.reset_filters", map[string]any{"page": msg.Page})
	return nil
}

// ToggleSortInput selects the sort column of a page.
type ToggleSortInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Page   string                  `json:"page"`
	Field  string                  `json:"field"`
}

// ToggleSortCommand wraps Service.ToggleSort.
type ToggleSortCommand struct {
	service   TableService
	telemetry Telemetry
}

// NewToggleSortCommand creates the command.
func NewToggleSortCommand(service TableService, telemetry Telemetry) *ToggleSortCommand {
	return &ToggleSortCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleSortInput] = (*ToggleSortCommand)(nil)

// Execute sorts by the field or flips its direction.
func (c *ToggleSortCommand) Execute(ctx context.Context, msg ToggleSortInput) error {
	if c.service == nil {
		return errors.New("sort command requires service")
	}
	if msg.Page == "" {
		return errMissingPage
	}
	if msg.Field == "" {
		return errors.New("sort command requires field")
	}
	if _, err := c.service.ToggleSort(ctx, msg.Viewer, msg.Page, msg.Field); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.sort", map[string]any{"page": msg.Page, "field": msg.Field})
	return nil
}

// GoToPageInput moves a page to another page index.
type GoToPageInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Page   string                  `json:"page"`
	Index  int                     `json:"index"`
}

// GoToPageCommand wraps Service.GoToPage.
type GoToPageCommand struct {
	service   TableService
	telemetry Telemetry
}

// NewGoToPageCommand creates the command.
func NewGoToPageCommand(service TableService, telemetry Telemetry) *GoToPageCommand {
	return &GoToPageCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[GoToPageInput] = (*GoToPageCommand)(nil)

// Execute moves to the requested index; out of range values are clamped.
func (c *GoToPageCommand) Execute(ctx context.Context, msg GoToPageInput) error {
	if c.service == nil {
		return errors.New("paginate command requires service")
	}
	if msg.Page == "" {
		return errMissingPage
	}
	if _, err := c.service.GoToPage(ctx, msg.Viewer, msg.Page, msg.Index); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.paginate", map[string]any{"page": msg.Page, "index": msg.Index})
	return nil
}

// ReloadInput refetches the records of a page.
type ReloadInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Page   string                  `json:"page"`
}

// ReloadCommand wraps Service.Reload.
type ReloadCommand struct {
	service   TableService
	telemetry Telemetry
}

// NewReloadCommand creates the command.
func NewReloadCommand(service TableService, telemetry Telemetry) *ReloadCommand {
	return &ReloadCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReloadInput] = (*ReloadCommand)(nil)

// Execute reloads the page. A failed reload keeps the error panel and
// returns the load error.
func (c *ReloadCommand) Execute(ctx context.Context, msg ReloadInput) error {
	if c.service == nil {
		return errors.New("reload command requires service")
	}
	if msg.Page == "" {
		return errMissingPage
	}
	_, err := c.service.Reload(ctx, msg.Viewer, msg.Page)
	c.telemetry.Record(ctx, "dashboard.command.reload", map[string]any{"page": msg.Page, "failed": err != nil})
	return err
}
