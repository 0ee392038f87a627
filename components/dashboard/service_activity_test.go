package dashboard

import (
	"context"
	"testing"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
	"github.com/goliatone/go-seo-dashboard/pkg/activity"
)

func TestCreateRecordEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	service, _ := newTestService(t, func(opts *Options) {
		opts.ActivityHooks = activity.Hooks{capture}
		opts.ActivityConfig = activity.Config{Enabled: true, Channel: "dashboard"}
	})

	ctx := ContextWithActivity(context.Background(), ActivityContext{
		ActorID:  "actor-1",
		UserID:   "user-1",
		TenantID: "tenant-1",
	})
	record, err := service.Create(ctx, testViewer, store.EntityKeywords, datatable.Record{"keyword": "crawl budget"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != "dashboard.record.create" || event.ObjectType != store.EntityKeywords {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.ActorID != "actor-1" || event.UserID != "user-1" || event.TenantID != "tenant-1" {
		t.Fatalf("unexpected actor context: %+v", event)
	}
	id, _ := record.ID()
	if event.ObjectID == "" || event.ObjectID != datatable.Text(id) {
		t.Fatalf("expected object id %d, got %q", id, event.ObjectID)
	}
	if event.Channel != "dashboard" {
		t.Fatalf("expected channel to default from config, got %q", event.Channel)
	}
}

func TestActivityFallsBackToViewer(t *testing.T) {
	capture := &activity.CaptureHook{}
	service, _ := newTestService(t, func(opts *Options) {
		opts.ActivityHooks = activity.Hooks{capture}
		opts.ActivityConfig = activity.Config{Enabled: true}
	})

	if _, err := service.RunAudit(context.Background(), testViewer, "example.com"); err != nil {
		t.Fatalf("RunAudit returned error: %v", err)
	}
	var audit *activity.Event
	for i := range capture.Events {
		if capture.Events[i].Verb == "dashboard.audit.run" {
			audit = &capture.Events[i]
		}
	}
	if audit == nil {
		t.Fatalf("expected an audit event, got %+v", capture.Events)
	}
	if audit.UserID != testViewer.UserID || audit.ActorID != testViewer.UserID {
		t.Fatalf("expected viewer to act, got %+v", audit)
	}
	if audit.Metadata["issues"] != 5 || audit.Metadata["domain"] != "example.com" {
		t.Fatalf("unexpected metadata %+v", audit.Metadata)
	}
}

func TestActivityDisabled(t *testing.T) {
	capture := &activity.CaptureHook{}
	service, _ := newTestService(t, func(opts *Options) {
		opts.ActivityHooks = activity.Hooks{capture}
	})
	if _, err := service.TrackKeyword(context.Background(), testViewer, "schema markup"); err != nil {
		t.Fatalf("TrackKeyword returned error: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events when disabled, got %d", len(capture.Events))
	}
}

func TestResolveActivityFillsMissingIdentifiers(t *testing.T) {
	viewer := ViewerContext{UserID: "viewer-1"}

	meta := resolveActivity(context.Background(), viewer)
	if meta.UserID != "viewer-1" || meta.ActorID != "viewer-1" {
		t.Fatalf("expected viewer to fill user and actor, got %+v", meta)
	}

	ctx := ContextWithActivity(context.Background(), ActivityContext{UserID: "editor-2", TenantID: "agency"})
	meta = resolveActivity(ctx, viewer)
	if meta.UserID != "editor-2" || meta.ActorID != "editor-2" || meta.TenantID != "agency" {
		t.Fatalf("expected command identifiers to win, got %+v", meta)
	}
}
