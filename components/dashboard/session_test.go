package dashboard

import (
	"context"
	"testing"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

func TestInMemorySessionStoreKeysByViewerAndLocale(t *testing.T) {
	sessions := NewInMemorySessionStore()
	ctx := context.Background()

	en, err := sessions.Session(ctx, ViewerContext{UserID: "user-1", Locale: "en"})
	if err != nil {
		t.Fatalf("Session returned error: %v", err)
	}
	again, _ := sessions.Session(ctx, ViewerContext{UserID: "user-1", Locale: "EN"})
	if en != again {
		t.Fatalf("expected locale to be normalized into the same session")
	}
	es, _ := sessions.Session(ctx, ViewerContext{UserID: "user-1", Locale: "es"})
	if es == en {
		t.Fatalf("expected a separate session per locale")
	}
	anon, _ := sessions.Session(ctx, ViewerContext{})
	shared, _ := sessions.Session(ctx, ViewerContext{UserID: anonymousViewer})
	if anon != shared {
		t.Fatalf("expected viewers without id to share the anonymous session")
	}
	if sessions.Len() != 3 {
		t.Fatalf("expected 3 sessions, got %d", sessions.Len())
	}

	if err := sessions.Reset(ctx, ViewerContext{UserID: "user-1", Locale: "en"}); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	fresh, _ := sessions.Session(ctx, ViewerContext{UserID: "user-1", Locale: "en"})
	if fresh == en {
		t.Fatalf("expected reset to discard the session")
	}
}

func TestSessionControllers(t *testing.T) {
	session := newSession()
	def := testPageDefinition()
	repo := newKeywordRepo(3)

	if _, ok := session.Existing(def.Code); ok {
		t.Fatalf("expected no controller before first use")
	}
	ctrl := session.Controller(def, repo)
	if session.Controller(def, repo) != ctrl {
		t.Fatalf("expected the controller to be reused")
	}
	if got, ok := session.Existing(def.Code); !ok || got != ctrl {
		t.Fatalf("expected existing controller to be returned")
	}
	if n := len(session.ControllersFor(store.EntityKeywords)); n != 1 {
		t.Fatalf("expected one keywords controller, got %d", n)
	}
	if n := len(session.ControllersFor(store.EntityBacklinks)); n != 0 {
		t.Fatalf("expected no backlinks controller, got %d", n)
	}
}

func TestSessionDomainIsCopied(t *testing.T) {
	session := newSession()
	if session.Domain() != nil {
		t.Fatalf("expected no domain before analysis")
	}
	record := datatable.Record{"url": "example.com", "domainRating": 72}
	session.SetDomain(record)
	record["url"] = "mutated.com"

	got := session.Domain()
	if got["url"] != "example.com" {
		t.Fatalf("expected stored snapshot to be isolated, got %v", got["url"])
	}
	got["url"] = "changed.com"
	if session.Domain()["url"] != "example.com" {
		t.Fatalf("expected returned snapshot to be a copy")
	}
}
