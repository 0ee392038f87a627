package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
)

var errCommandUnavailable = errors.New("httpapi: command not configured")

// Executor runs the dashboard commands on behalf of a transport.
type Executor interface {
	ApplyFilters(ctx context.Context, input commands.ApplyFiltersInput) error
	ResetFilters(ctx context.Context, input commands.ResetFiltersInput) error
	ToggleSort(ctx context.Context, input commands.ToggleSortInput) error
	GoToPage(ctx context.Context, input commands.GoToPageInput) error
	Reload(ctx context.Context, input commands.ReloadInput) error
	CreateRecord(ctx context.Context, input commands.CreateRecordInput) error
	UpdateRecord(ctx context.Context, input commands.UpdateRecordInput) error
	DeleteRecord(ctx context.Context, input commands.DeleteRecordInput) error
	RunAction(ctx context.Context, input commands.RunActionInput) error
}

// CommandExecutor adapts go-command commanders to Executor. Unset
// commanders report errCommandUnavailable.
type CommandExecutor struct {
	FiltersCommander gocommand.Commander[commands.ApplyFiltersInput]
	ResetCommander   gocommand.Commander[commands.ResetFiltersInput]
	SortCommander    gocommand.Commander[commands.ToggleSortInput]
	PageCommander    gocommand.Commander[commands.GoToPageInput]
	ReloadCommander  gocommand.Commander[commands.ReloadInput]
	CreateCommander  gocommand.Commander[commands.CreateRecordInput]
	UpdateCommander  gocommand.Commander[commands.UpdateRecordInput]
	DeleteCommander  gocommand.Commander[commands.DeleteRecordInput]
	ActionCommander  gocommand.Commander[commands.RunActionInput]
}

var _ Executor = (*CommandExecutor)(nil)

// Service is the dashboard surface NewCommandExecutor wires every command to.
type Service interface {
	commands.TableService
	commands.RecordService
	commands.ActionService
}

// NewCommandExecutor builds the standard command set over service.
func NewCommandExecutor(service Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		FiltersCommander: commands.NewApplyFiltersCommand(service, telemetry),
		ResetCommander:   commands.NewResetFiltersCommand(service, telemetry),
		SortCommander:    commands.NewToggleSortCommand(service, telemetry),
		PageCommander:    commands.NewGoToPageCommand(service, telemetry),
		ReloadCommander:  commands.NewReloadCommand(service, telemetry),
		CreateCommander:  commands.NewCreateRecordCommand(service, telemetry),
		UpdateCommander:  commands.NewUpdateRecordCommand(service, telemetry),
		DeleteCommander:  commands.NewDeleteRecordCommand(service, telemetry),
		ActionCommander:  commands.NewRunActionCommand(service, telemetry),
	}
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], input T) error {
	if cmd == nil {
		return errCommandUnavailable
	}
	return cmd.Execute(ctx, input)
}

func (e *CommandExecutor) ApplyFilters(ctx context.Context, input commands.ApplyFiltersInput) error {
	return execute(ctx, e.FiltersCommander, input)
}

func (e *CommandExecutor) ResetFilters(ctx context.Context, input commands.ResetFiltersInput) error {
	return execute(ctx, e.ResetCommander, input)
}

func (e *CommandExecutor) ToggleSort(ctx context.Context, input commands.ToggleSortInput) error {
	return execute(ctx, e.SortCommander, input)
}

func (e *CommandExecutor) GoToPage(ctx context.Context, input commands.GoToPageInput) error {
	return execute(ctx, e.PageCommander, input)
}

func (e *CommandExecutor) Reload(ctx context.Context, input commands.ReloadInput) error {
	return execute(ctx, e.ReloadCommander, input)
}

func (e *CommandExecutor) CreateRecord(ctx context.Context, input commands.CreateRecordInput) error {
	return execute(ctx, e.CreateCommander, input)
}

func (e *CommandExecutor) UpdateRecord(ctx context.Context, input commands.UpdateRecordInput) error {
	return execute(ctx, e.UpdateCommander, input)
}

func (e *CommandExecutor) DeleteRecord(ctx context.Context, input commands.DeleteRecordInput) error {
	return execute(ctx, e.DeleteCommander, input)
}

func (e *CommandExecutor) RunAction(ctx context.Context, input commands.RunActionInput) error {
	return execute(ctx, e.ActionCommander, input)
}
