package gorouter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
)

func TestRegisterValidatesConfig(t *testing.T) {
	err := Register(Config[struct{}]{})
	if err == nil {
		t.Fatalf("expected error when router/controller missing")
	}
}

func TestRegisterRequiresRouter(t *testing.T) {
	registry, err := dashboard.NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	err = Register(Config[struct{}]{Pages: registry})
	assert.EqualError(t, err, "gorouter: router is required")
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{})
	assert.Equal(t, RouteConfig{API: "/api", WebSocket: "/ws"}, routes)

	custom := defaultRouteConfig(RouteConfig{API: "/v1", WebSocket: "/stream"})
	assert.Equal(t, "/v1", custom.API)
	assert.Equal(t, "/stream", custom.WebSocket)
}
