package dashboard

import (
	"context"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// List returns every record of entity.
func (s *Service) List(ctx context.Context, entity string) ([]datatable.Record, error) {
	repo, err := s.repository(entity)
	if err != nil {
		return nil, err
	}
	return repo.GetAll(ctx)
}

// Get returns a single record of entity.
func (s *Service) Get(ctx context.Context, entity string, id int) (datatable.Record, error) {
	repo, err := s.repository(entity)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// Create validates and stores a record, appending it to the viewer's pages.
func (s *Service) Create(ctx context.Context, viewer ViewerContext, entity string, data datatable.Record) (datatable.Record, error) {
	record, err := s.create(ctx, viewer, entity, data)
	if err != nil {
		return nil, s.fail(ctx, viewer, "", "create", "Failed to create record", err)
	}
	s.notify(ctx, viewer, LevelSuccess, "", "create", "Record created")
	return record, nil
}

func (s *Service) create(ctx context.Context, viewer ViewerContext, entity string, data datatable.Record) (datatable.Record, error) {
	repo, err := s.repository(entity)
	if err != nil {
		return nil, err
	}
	if err := s.opts.Validator.Validate(entity, data, false); err != nil {
		return nil, err
	}
	record, err := repo.Create(ctx, data)
	if err != nil {
		return nil, err
	}
	s.syncControllers(ctx, viewer, entity, func(ctrl *PageController) {
		ctrl.Append(record)
	})
	id, _ := record.ID()
	s.emitActivity(ctx, viewer, "dashboard.record.create", entity, id, nil)
	s.recordTelemetry(ctx, "dashboard.record.create", map[string]any{"entity": entity})
	return record, nil
}

// Update validates a partial payload and merges it into the record.
func (s *Service) Update(ctx context.Context, viewer ViewerContext, entity string, id int, data datatable.Record) (datatable.Record, error) {
	record, err := s.update(ctx, viewer, entity, id, data)
	if err != nil {
		return nil, s.fail(ctx, viewer, "", "update", "Failed to update record", err)
	}
	s.notify(ctx, viewer, LevelSuccess, "", "update", "Record updated")
	return record, nil
}

func (s *Service) update(ctx context.Context, viewer ViewerContext, entity string, id int, data datatable.Record) (datatable.Record, error) {
	repo, err := s.repository(entity)
	if err != nil {
		return nil, err
	}
	if err := s.opts.Validator.Validate(entity, data, true); err != nil {
		return nil, err
	}
	record, err := repo.Update(ctx, id, data)
	if err != nil {
		return nil, err
	}
	s.syncControllers(ctx, viewer, entity, func(ctrl *PageController) {
		ctrl.Upsert(record)
	})
	s.emitActivity(ctx, viewer, "dashboard.record.update", entity, id, map[string]any{"fields": len(data)})
	s.recordTelemetry(ctx, "dashboard.record.update", map[string]any{"entity": entity})
	return record, nil
}

// Delete removes a record and drops it from the viewer's pages.
func (s *Service) Delete(ctx context.Context, viewer ViewerContext, entity string, id int) error {
	if err := s.delete(ctx, viewer, entity, id); err != nil {
		return s.fail(ctx, viewer, "", "delete", "Failed to delete record", err)
	}
	s.notify(ctx, viewer, LevelSuccess, "", "delete", "Record deleted")
	return nil
}

func (s *Service) delete(ctx context.Context, viewer ViewerContext, entity string, id int) error {
	repo, err := s.repository(entity)
	if err != nil {
		return err
	}
	if _, err := repo.Delete(ctx, id); err != nil {
		return err
	}
	s.syncControllers(ctx, viewer, entity, func(ctrl *PageController) {
		ctrl.Remove(id)
	})
	s.emitActivity(ctx, viewer, "dashboard.record.delete", entity, id, nil)
	s.recordTelemetry(ctx, "dashboard.record.delete", map[string]any{"entity": entity})
	return nil
}
