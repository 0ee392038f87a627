package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
)

// SeedDashboardInput lists the demo competitors and keywords to add. Empty
// lists fall back to the default seed.
type SeedDashboardInput struct {
	Competitors []string `json:"competitors,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

func (in SeedDashboardInput) request() dashboard.SeedRequest {
	req := dashboard.DefaultSeedRequest()
	if len(in.Competitors) > 0 {
		req.Competitors = in.Competitors
	}
	if len(in.Keywords) > 0 {
		req.Keywords = in.Keywords
	}
	return req
}

// SeedDashboardCommand adds starter data to the empty collections.
type SeedDashboardCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{
		service:   service,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute seeds competitors and tracked keywords as the scheduler viewer.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	req := msg.request()
	if err := dashboard.Seed(ctx, c.service, dashboard.SchedulerViewer, req); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"competitors": len(req.Competitors),
		"keywords":    len(req.Keywords),
	})
	return nil
}
