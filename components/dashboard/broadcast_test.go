package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()

	n := NewNotification(LevelSuccess, PageKeywords, ActionResearch, "Found 10 keyword suggestions")
	if err := hook.Notify(context.Background(), n); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}
	select {
	case got := <-ch:
		if got.ID != n.ID || got.Message != n.Message {
			t.Fatalf("expected notification %+v, got %+v", n, got)
		}
	default:
		t.Fatalf("expected notification to be delivered")
	}
}

func TestBroadcastHookCancel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	if hook.Subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", hook.Subscribers())
	}
	cancel()
	cancel()
	if hook.Subscribers() != 0 {
		t.Fatalf("expected no subscribers after cancel, got %d", hook.Subscribers())
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			_ = hook.Notify(context.Background(), NewNotification(LevelInfo, "", "", "tick"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected Notify not to block on a full subscriber")
	}
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hook.Subscribers() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	_ = hook.Notify(context.Background(), NewNotification(LevelError, PageOverview, ActionAnalyze, "Analysis failed"))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var got Notification
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Level != LevelError || got.Message != "Analysis failed" {
		t.Fatalf("unexpected notification %+v", got)
	}
}
