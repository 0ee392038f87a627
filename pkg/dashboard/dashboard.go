// Package dashboard re-exports the SEO dashboard service for host
// applications that should not import components/ directly.
package dashboard

import (
	"context"

	core "github.com/goliatone/go-seo-dashboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext identifies who is looking at a page.
type ViewerContext = core.ViewerContext

// PagePayload is the resolved state of one page.
type PagePayload = core.PagePayload

// BootstrapOptions configures Bootstrap.
type BootstrapOptions = core.BootstrapOptions

// NewService proxies to the internal constructor.
func NewService(opts Options) (*Service, error) {
	return core.NewService(opts)
}

// Bootstrap builds a service over the embedded fixtures.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Service, error) {
	return core.Bootstrap(ctx, opts)
}
