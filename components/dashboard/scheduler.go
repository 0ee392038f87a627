package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// SchedulerViewer is the viewer scheduled jobs act as.
var SchedulerViewer = ViewerContext{UserID: "scheduler"}

var errSchedulerRunning = errors.New("dashboard: scheduler already running")

// ScheduleRankingRefresh runs UpdateRankings on the given cron schedule
// (standard five-field syntax or descriptors such as "@hourly").
func (s *Service) ScheduleRankingRefresh(spec string) error {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()
	if s.cron != nil {
		return errSchedulerRunning
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := s.UpdateRankings(context.Background(), SchedulerViewer); err != nil {
			s.log.Warn("scheduled ranking refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("dashboard: invalid refresh schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	s.log.Info("ranking refresh scheduled", "schedule", spec)
	return nil
}

// Close stops the scheduler and waits for a running job to finish.
func (s *Service) Close() {
	s.cronMu.Lock()
	c := s.cron
	s.cron = nil
	s.cronMu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Warm fetches the collection of every registered page concurrently and
// returns the record count per entity.
func (s *Service) Warm(ctx context.Context) (map[string]int, error) {
	var entities []string
	for _, def := range s.opts.Pages.Pages() {
		if !slices.Contains(entities, def.Entity) {
			entities = append(entities, def.Entity)
		}
	}
	var (
		mu     sync.Mutex
		counts = make(map[string]int, len(entities))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, entity := range entities {
		g.Go(func() error {
			repo, err := s.repository(entity)
			if err != nil {
				return err
			}
			records, err := repo.GetAll(gctx)
			if err != nil {
				return fmt.Errorf("dashboard: warm %s: %w", entity, err)
			}
			mu.Lock()
			counts[entity] = len(records)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.log.Info("collections warmed", "entities", len(counts))
	return counts, nil
}
