package dashboard

import (
	"context"
	"errors"
	"io"
	"strings"
)

// DefaultPageTemplate is the template rendered for every page.
const DefaultPageTemplate = "page.html"

var errMissingRenderer = errors.New("dashboard: renderer not configured")

// PageResolver resolves page payloads for a viewer. *Service satisfies it.
type PageResolver interface {
	Page(ctx context.Context, viewer ViewerContext, code string) (PagePayload, error)
}

// ControllerOptions configures the HTML controller.
type ControllerOptions struct {
	Service  PageResolver
	Renderer Renderer
	Template string
	// BasePath prefixes the navigation links and stream URL in templates.
	BasePath string
}

// Controller renders dashboard pages to HTML.
type Controller struct {
	service  PageResolver
	renderer Renderer
	template string
	basePath string
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = DefaultPageTemplate
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: opts.Template,
		basePath: strings.TrimRight(opts.BasePath, "/"),
	}
}

// PagePayload resolves the page payload without rendering it.
func (c *Controller) PagePayload(ctx context.Context, viewer ViewerContext, code string) (PagePayload, error) {
	if c.service == nil {
		return PagePayload{}, errMissingRepositories
	}
	return c.service.Page(ctx, viewer, code)
}

// RenderTemplate renders the page identified by code into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, code string, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	payload, err := c.PagePayload(ctx, viewer, code)
	if err != nil {
		return err
	}
	data := TemplateData(payload, viewer)
	data["base_path"] = c.basePath
	_, err = c.renderer.Render(c.template, data, out)
	return err
}

// TemplateData flattens a payload into the context the page templates read.
func TemplateData(payload PagePayload, viewer ViewerContext) map[string]any {
	filters := make([]map[string]any, len(payload.Filters))
	for i, f := range payload.Filters {
		filters[i] = map[string]any{
			"key":         f.Key,
			"label":       f.Label,
			"type":        string(f.Kind),
			"options":     f.Options,
			"placeholder": f.Placeholder,
			"value":       payload.View.State.Filters[f.Key],
		}
	}
	pages := make([]int, payload.View.Page.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	data := map[string]any{
		"page":       payload.Page,
		"view":       payload.View,
		"headers":    payload.View.Headers,
		"rows":       payload.View.Rows,
		"pagination": payload.View.Page,
		"pages":      pages,
		"filters":    filters,
		"actions":    payload.Actions,
		"metrics":    payload.Metrics,
		"charts":     payload.Charts,
		"domain":     payload.Domain,
		"error":      payload.Error,
		"navigation": payload.Navigation,
		"locale":     viewer.Locale,
		"viewer":     viewer,
	}
	if payload.Theme != nil {
		data["theme"] = payload.Theme
		data["theme_css"] = payload.Theme.CSSVariablesInline()
	}
	return data
}

// PageCodeForPath maps a request path to a page code using the registry,
// trimming a trailing slash.
func PageCodeForPath(pages PageRegistry, path string) (string, bool) {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}
	def, ok := pages.PageByRoute(path)
	if !ok {
		return "", false
	}
	return def.Code, true
}
