package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

type RecordService interface {
	Create(ctx context.Context, viewer dashboard.ViewerContext, entity string, data datatable.Record) (datatable.Record, error)
	Update(ctx context.Context, viewer dashboard.ViewerContext, entity string, id int, data datatable.Record) (datatable.Record, error)
	Delete(ctx context.Context, viewer dashboard.ViewerContext, entity string, id int) error
}

// Actor identifies who triggered a mutation for activity events.
type Actor struct {
	ActorID  string `json:"actor_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

func (a Actor) withActivity(ctx context.Context) context.Context {
	if a == (Actor{}) {
		return ctx
	}
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  a.ActorID,
		UserID:   a.UserID,
		TenantID: a.TenantID,
	})
}

// CreateRecordInput stores a new record. Result receives the stored record
// when set.
type CreateRecordInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Actor
	Entity string            `json:"entity"`
	Data   datatable.Record  `json:"data"`
	Result *datatable.Record `json:"-"`
}

// CreateRecordCommand wraps Service.Create.
type CreateRecordCommand struct {
	service   RecordService
	telemetry Telemetry
}

// NewCreateRecordCommand creates the command.
func NewCreateRecordCommand(service RecordService, telemetry Telemetry) *CreateRecordCommand {
	return &CreateRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateRecordInput] = (*CreateRecordCommand)(nil)

// Execute validates and stores the record.
func (c *CreateRecordCommand) Execute(ctx context.Context, msg CreateRecordInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	if msg.Entity == "" {
		return errors.New("create command requires entity")
	}
	record, err := c.service.Create(msg.Actor.withActivity(ctx), msg.Viewer, msg.Entity, msg.Data)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	c.telemetry.Record(ctx, "dashboard.command.create", map[string]any{"entity": msg.Entity})
	return nil
}

// UpdateRecordInput merges Data into an existing record.
type UpdateRecordInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Actor
	Entity string            `json:"entity"`
	ID     int               `json:"id"`
	Data   datatable.Record  `json:"data"`
	Result *datatable.Record `json:"-"`
}

// UpdateRecordCommand wraps Service.Update.
type UpdateRecordCommand struct {
	service   RecordService
	telemetry Telemetry
}

// NewUpdateRecordCommand creates the command.
func NewUpdateRecordCommand(service RecordService, telemetry Telemetry) *UpdateRecordCommand {
	return &UpdateRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateRecordInput] = (*UpdateRecordCommand)(nil)

// Execute applies the partial update.
func (c *UpdateRecordCommand) Execute(ctx context.Context, msg UpdateRecordInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.Entity == "" || msg.ID <= 0 {
		return errors.New("update command requires entity and id")
	}
	record, err := c.service.Update(msg.Actor.withActivity(ctx), msg.Viewer, msg.Entity, msg.ID, msg.Data)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = record
	}
	c.telemetry.Record(ctx, "dashboard.command.update", map[string]any{"entity": msg.Entity, "id": msg.ID})
	return nil
}

// DeleteRecordInput removes a record.
type DeleteRecordInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Actor
	Entity string `json:"entity"`
	ID     int    `json:"id"`
}

// DeleteRecordCommand wraps Service.Delete.
type DeleteRecordCommand struct {
	service   RecordService
	telemetry Telemetry
}

// NewDeleteRecordCommand creates the command.
func NewDeleteRecordCommand(service RecordService, telemetry Telemetry) *DeleteRecordCommand {
	return &DeleteRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteRecordInput] = (*DeleteRecordCommand)(nil)

// Execute deletes the record.
func (c *DeleteRecordCommand) Execute(ctx context.Context, msg DeleteRecordInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if msg.Entity == "" || msg.ID <= 0 {
		return errors.New("delete command requires entity and id")
	}
	if err := c.service.Delete(msg.Actor.withActivity(ctx), msg.Viewer, msg.Entity, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.delete", map[string]any{"entity": msg.Entity, "id": msg.ID})
	return nil
}
