package activity

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-seo-dashboard/pkg/logger"
)

func TestEmitterFillsConfiguredChannel(t *testing.T) {
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{capture}, Config{Enabled: true, Channel: "seo"})

	if err := em.Emit(context.Background(), Event{Verb: "opportunity.contact", ObjectType: "linkOpportunities", ObjectID: "3"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := em.Emit(context.Background(), Event{Verb: "opportunity.acquire", ObjectType: "linkOpportunities", Channel: "outreach"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "seo" || capture.Events[1].Channel != "outreach" {
		t.Fatalf("unexpected channels %q %q", capture.Events[0].Channel, capture.Events[1].Channel)
	}
}

func TestEmitterDefaultChannel(t *testing.T) {
	capture := &CaptureHook{}
	em := NewEmitter(Hooks{capture}, Config{Enabled: true})
	if err := em.Emit(context.Background(), Event{Verb: "rankings.update", ObjectType: "rankings"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if got := capture.Events[0].Channel; got != DefaultChannel {
		t.Fatalf("expected %q, got %q", DefaultChannel, got)
	}
}

func TestEmitterDisabled(t *testing.T) {
	capture := &CaptureHook{}
	cases := map[string]*Emitter{
		"nil emitter":  nil,
		"no hooks":     NewEmitter(nil, Config{Enabled: true}),
		"switched off": NewEmitter(Hooks{capture}, Config{}),
	}
	for name, em := range cases {
		if em.Enabled() {
			t.Fatalf("%s: expected disabled emitter", name)
		}
		if err := em.Emit(context.Background(), Event{Verb: "record.delete", ObjectType: "backlinks"}); err != nil {
			t.Fatalf("%s: emit returned %v", name, err)
		}
	}
	if len(capture.Events) != 0 {
		t.Fatalf("disabled emitters must not deliver")
	}
}

func TestLoggerHookWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	hook := LoggerHook{Logger: logger.New(logger.Config{Output: &buf})}
	em := NewEmitter(Hooks{hook}, Config{Enabled: true, Channel: "seo"})
	if err := em.Emit(context.Background(), Event{Verb: "audit.run", ObjectType: "domain", ObjectID: "seoinsight.io"}); err != nil {
		t.Fatalf("emit returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "audit.run") || !strings.Contains(out, "seoinsight.io") {
		t.Fatalf("expected logged event, got %q", out)
	}
}
