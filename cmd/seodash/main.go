package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	EnvFile string `name:"env-file" default:".env" type:"path" help:"Optional dotenv file loaded before SEODASH_ environment overrides."`

	Serve    serveCmd    `cmd:"" help:"Serve the dashboard pages, JSON API and notification stream."`
	Fixtures fixturesCmd `cmd:"" help:"Serve the fixture collections over REST for remote mode."`
	Table    tableCmd    `cmd:"" help:"Print one page of a dashboard table."`
	Pages    pagesCmd    `cmd:"" help:"List the dashboard pages and their routes."`
	Seed     seedCmd     `cmd:"" help:"Seed demo competitors and tracked keywords, then print the totals."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a page definition to a manifest file."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root cli
	kctx := kong.Parse(&root,
		kong.Name("seodash"),
		kong.Description("SEO analytics dashboard over mock data providers."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := kctx.Run(&root)
	kctx.FatalIfErrorf(err)
}
