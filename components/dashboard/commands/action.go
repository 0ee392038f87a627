package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
)

type ActionService interface {
	RunAction(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.ActionRequest) (dashboard.ActionResult, error)
}

// RunActionInput triggers a page action such as an audit or a ranking
// refresh. Result receives the action output when set.
type RunActionInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Actor
	Request dashboard.ActionRequest `json:"request"`
	Result  *dashboard.ActionResult `json:"-"`
}

// RunActionCommand wraps Service.RunAction.
type RunActionCommand struct {
	service   ActionService
	telemetry Telemetry
}

// NewRunActionCommand creates the command.
func NewRunActionCommand(service ActionService, telemetry Telemetry) *RunActionCommand {
	return &RunActionCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RunActionInput] = (*RunActionCommand)(nil)

// Execute runs the action.
func (c *RunActionCommand) Execute(ctx context.Context, msg RunActionInput) error {
	if c.service == nil {
		return errors.New("action command requires service")
	}
	if msg.Request.Action == "" {
		return errors.New("action command requires action")
	}
	result, err := c.service.RunAction(msg.Actor.withActivity(ctx), msg.Viewer, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = result
	}
	c.telemetry.Record(ctx, "dashboard.command.action", map[string]any{
		"page":   msg.Request.Page,
		"action": msg.Request.Action,
	})
	return nil
}
