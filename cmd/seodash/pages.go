package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-seo-dashboard/pkg/navigation"
)

const sidebarMenu = "seo.main"

type pagesCmd struct {
	Locale string `help:"Locale used for page titles."`
}

func (cmd *pagesCmd) Run(root *cli, ctx context.Context) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, appOptions{quiet: true})
	if err != nil {
		return err
	}
	defer a.service.Close()

	menu := navigation.NewMenu()
	sidebar, err := navigation.New(navigation.Config{
		MenuCode:    sidebarMenu,
		MenuBuilder: menu,
		Pages:       a.service,
		BasePath:    cfg.Server.BasePath,
	})
	if err != nil {
		return err
	}
	if err := sidebar.Bootstrap(ctx, a.viewer(cmd.Locale)); err != nil {
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "Code", "Title", "Route", "Icon")
	for _, item := range menu.Items(sidebarMenu) {
		t.Row(strconv.Itoa(item.Position), item.Code, item.Label, item.Route, item.Icon)
	}
	fmt.Fprintln(os.Stdout, t.String())
	return nil
}
