package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

type seedCmd struct {
	Competitor []string `help:"Competitor domains to add (defaults to the demo set)."`
	Keyword    []string `help:"Keywords to track (defaults to the demo set)."`
}

func (cmd *seedCmd) Run(root *cli, ctx context.Context) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, appOptions{quiet: true})
	if err != nil {
		return err
	}
	defer a.service.Close()

	seed := commands.NewSeedDashboardCommand(a.service, a.telemetry)
	if err := seed.Execute(ctx, commands.SeedDashboardInput{
		Competitors: cmd.Competitor,
		Keywords:    cmd.Keyword,
	}); err != nil {
		return err
	}

	for _, entity := range []string{store.EntityCompetitors, store.EntityRankings} {
		records, err := a.service.List(ctx, entity)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %s records\n", titleStyle.Render(entity), humanize.Comma(int64(len(records))))
	}
	return nil
}
