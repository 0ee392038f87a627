package dashboard

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// PrometheusTelemetry counts events per name and page.
type PrometheusTelemetry struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
}

// NewPrometheusTelemetry registers the event counter on a dedicated registry.
func NewPrometheusTelemetry() *PrometheusTelemetry {
	registry := prometheus.NewRegistry()
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seodash",
		Name:      "events_total",
		Help:      "Dashboard events by name and page.",
	}, []string{"event", "page"})
	registry.MustRegister(events)
	return &PrometheusTelemetry{registry: registry, events: events}
}

// Record increments the counter for event. The "page" payload key becomes a label.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	page, _ := payload["page"].(string)
	t.events.WithLabelValues(event, page).Inc()
}

// Counter exposes the underlying vector for assertions and custom collectors.
func (t *PrometheusTelemetry) Counter() *prometheus.CounterVec {
	return t.events
}

// Handler serves the registry in the Prometheus exposition format.
func (t *PrometheusTelemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}
