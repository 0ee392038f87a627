package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
)

// PageInput identifies a page request for a viewer.
type PageInput struct {
	Viewer dashboard.ViewerContext
	Page   string
}

type pageService interface {
	Page(ctx context.Context, viewer dashboard.ViewerContext, code string) (dashboard.PagePayload, error)
}

// PageQuery resolves the payload of a single page, loading it on first use.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageInput, dashboard.PagePayload] = (*PageQuery)(nil)

// Query returns the page payload for the viewer.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (dashboard.PagePayload, error) {
	return q.service.Page(ctx, input.Viewer, input.Page)
}

type navigationService interface {
	Pages(viewer dashboard.ViewerContext) []dashboard.PageSummary
}

// PagesQuery lists the navigation entries.
type PagesQuery struct {
	service navigationService
}

// NewPagesQuery builds the query.
func NewPagesQuery(service navigationService) *PagesQuery {
	return &PagesQuery{service: service}
}

var _ gocommand.Querier[dashboard.ViewerContext, []dashboard.PageSummary] = (*PagesQuery)(nil)

// Query returns the pages localized for the viewer.
func (q *PagesQuery) Query(_ context.Context, viewer dashboard.ViewerContext) ([]dashboard.PageSummary, error) {
	return q.service.Pages(viewer), nil
}
