package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	metricStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeMarker = map[datatable.Direction]string{datatable.Asc: " ▲", datatable.Desc: " ▼"}
)

type tableCmd struct {
	Code   string            `arg:"" help:"Page code (overview, backlinks, keywords, ...)."`
	Filter map[string]string `short:"f" help:"Filter values as key=value pairs."`
	Sort   string            `help:"Column to sort by."`
	Desc   bool              `help:"Sort descending."`
	Index  int               `name:"page" default:"1" help:"Page index to show."`
	Locale string            `help:"Locale used for titles and formatting."`
}

func (cmd *tableCmd) Run(root *cli, ctx context.Context) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, appOptions{quiet: true})
	if err != nil {
		return err
	}
	defer a.service.Close()

	viewer := a.viewer(cmd.Locale)
	if err := cmd.apply(ctx, a, viewer); err != nil {
		return err
	}
	payload, err := queries.NewPageQuery(a.service).Query(ctx, queries.PageInput{Viewer: viewer, Page: cmd.Code})
	if err != nil {
		return err
	}
	printPage(os.Stdout, payload)
	return nil
}

// apply replays the flags as table commands in the same order the HTML
// routes use: filters, sort, page.
func (cmd *tableCmd) apply(ctx context.Context, a *app, viewer dashboard.ViewerContext) error {
	if len(cmd.Filter) > 0 {
		filters := commands.NewApplyFiltersCommand(a.service, a.telemetry)
		if err := filters.Execute(ctx, commands.ApplyFiltersInput{
			Viewer:  viewer,
			Page:    cmd.Code,
			Filters: datatable.Values(cmd.Filter),
		}); err != nil {
			return err
		}
	}
	if cmd.Sort != "" {
		sort := commands.NewToggleSortCommand(a.service, a.telemetry)
		toggles := 1
		if cmd.Desc {
			toggles = 2
		}
		for range toggles {
			if err := sort.Execute(ctx, commands.ToggleSortInput{Viewer: viewer, Page: cmd.Code, Field: cmd.Sort}); err != nil {
				return err
			}
		}
	}
	if cmd.Index > 1 {
		page := commands.NewGoToPageCommand(a.service, a.telemetry)
		if err := page.Execute(ctx, commands.GoToPageInput{Viewer: viewer, Page: cmd.Code, Index: cmd.Index}); err != nil {
			return err
		}
	}
	return nil
}

func printPage(w io.Writer, payload dashboard.PagePayload) {
	fmt.Fprintln(w, titleStyle.Render(payload.Page.Title))
	if payload.Error != nil {
		fmt.Fprintln(w, errorStyle.Render(payload.Error.Message))
		return
	}
	if len(payload.Metrics) > 0 {
		cards := make([]string, 0, len(payload.Metrics))
		for _, m := range payload.Metrics {
			cards = append(cards, metricStyle.Render(mutedStyle.Render(m.Label)+"\n"+m.Value))
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	if active := payload.View.State.Filters.Active(); len(active) > 0 {
		keys := make([]string, 0, len(active))
		for k := range active {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + active[k]
		}
		fmt.Fprintln(w, mutedStyle.Render("filters: "+strings.Join(pairs, ", ")))
	}
	if payload.View.Empty() {
		fmt.Fprintln(w, mutedStyle.Render("No records match the current filters."))
		return
	}
	fmt.Fprintln(w, renderView(payload.View))
	if payload.View.ShowPagination {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("page %d of %d", payload.View.Page.Index, payload.View.Page.TotalPages)))
	}
	fmt.Fprintln(w, mutedStyle.Render(payload.View.Summary))
}

func renderView(view datatable.View) string {
	headers := make([]string, len(view.Headers))
	for i, h := range view.Headers {
		headers[i] = h.Label
		if h.Active {
			headers[i] += activeMarker[h.Direction]
		}
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
		Headers(headers...)
	for _, row := range view.Rows {
		cells := make([]string, len(view.Headers))
		for i, h := range view.Headers {
			cells[i] = datatable.Text(row.Record[h.Key])
		}
		t.Row(cells...)
	}
	return t.String()
}
