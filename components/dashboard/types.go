package dashboard

import (
	"context"
	"time"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// RepositorySource resolves the repository backing an entity collection.
type RepositorySource interface {
	Repository(entity string) (store.Repository, error)
}

// Analyzer runs the simulated SEO analyses behind the page actions.
type Analyzer interface {
	AnalyzeDomain(ctx context.Context, url string) (datatable.Record, error)
	AnalyzeCompetitor(ctx context.Context, domain string) (datatable.Record, error)
	CompareDomains(ctx context.Context, domains []string) ([]datatable.Record, error)
	SharedKeywords(ctx context.Context, first, second string) ([]datatable.Record, error)
	ResearchKeywords(ctx context.Context, seed string) ([]datatable.Record, error)
	TrackKeyword(ctx context.Context, keyword string) (datatable.Record, error)
	KeywordHistory(ctx context.Context, keyword string) ([]store.HistoryPoint, error)
	UpdateRankings(ctx context.Context) (store.RankingUpdate, error)
	RunAudit(ctx context.Context, domain string) ([]datatable.Record, error)
}

// PageRegistry stores page definitions discoverable via hooks or manifests.
type PageRegistry interface {
	Register(def PageDefinition) error
	Page(code string) (PageDefinition, bool)
	PageByRoute(route string) (PageDefinition, bool)
	Pages() []PageDefinition
}

// SessionStore returns the per-viewer page state.
type SessionStore interface {
	Session(ctx context.Context, viewer ViewerContext) (*Session, error)
	Reset(ctx context.Context, viewer ViewerContext) error
}

// NotificationHook delivers transient notifications to transports.
type NotificationHook interface {
	Notify(ctx context.Context, n Notification) error
}

// ViewerContext captures the active user/locale information needed to render pages.
type ViewerContext struct {
	UserID string
	Locale string
}

// NotificationLevel classifies a notification.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a transient message shown to the viewer.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Page      string            `json:"page,omitempty"`
	Action    string            `json:"action,omitempty"`
	Message   string            `json:"message"`
	UserID    string            `json:"user_id,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// ErrorPanel is the inline error kept on a page until a successful reload.
type ErrorPanel struct {
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// MetricCard is one headline number on a page.
type MetricCard struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Value     string  `json:"value"`
	Raw       float64 `json:"raw"`
	Available bool    `json:"available"`
	Tone      string  `json:"tone,omitempty"`
}

// Chart is rendered chart markup.
type Chart struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Type  string `json:"type"`
	HTML  string `json:"html"`
}

// PageSummary is the navigation entry for a page.
type PageSummary struct {
	Code     string `json:"code"`
	Route    string `json:"route"`
	Title    string `json:"title"`
	Icon     string `json:"icon,omitempty"`
	Position int    `json:"position"`
	Active   bool   `json:"active,omitempty"`
}

// PagePayload is everything a transport needs to render a page.
type PagePayload struct {
	Page       PageSummary                  `json:"page"`
	View       datatable.View               `json:"view"`
	Filters    []datatable.FilterDescriptor `json:"filters"`
	Actions    []string                     `json:"actions,omitempty"`
	Metrics    []MetricCard                 `json:"metrics"`
	Charts     []Chart                      `json:"charts,omitempty"`
	Domain     datatable.Record             `json:"domain,omitempty"`
	Error      *ErrorPanel                  `json:"error,omitempty"`
	Navigation []PageSummary                `json:"navigation"`
	Theme      *ThemeSelection              `json:"theme,omitempty"`
}
