package httpapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
)

const (
	// HeaderUserID carries the viewer identity.
	HeaderUserID = "X-User-ID"
	// HeaderActorID identifies who acted on behalf of the viewer.
	HeaderActorID = "X-Actor-ID"
	// HeaderTenantID scopes activity events.
	HeaderTenantID = "X-Tenant-ID"
)

// ViewerFromRequest resolves the viewer from the identity header and the
// locale query parameter, falling back to Accept-Language.
func ViewerFromRequest(r *http.Request) dashboard.ViewerContext {
	return Viewer(r.Header.Get(HeaderUserID), r.URL.Query().Get("locale"), r.Header.Get("Accept-Language"))
}

// Viewer builds a viewer context from raw request values.
func Viewer(userID, locale, acceptLanguage string) dashboard.ViewerContext {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = ParseAcceptLanguage(acceptLanguage)
	}
	return dashboard.ViewerContext{UserID: strings.TrimSpace(userID), Locale: locale}
}

// ParseAcceptLanguage returns the preferred language tag of an
// Accept-Language header, or "" when none is usable.
func ParseAcceptLanguage(header string) string {
	type candidate struct {
		tag     string
		quality float64
	}
	var candidates []candidate
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "*" {
			continue
		}
		quality := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(q, 64)
			if err != nil {
				continue
			}
			quality = parsed
		}
		if quality <= 0 {
			continue
		}
		candidates = append(candidates, candidate{tag: tag, quality: quality})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].quality > candidates[j].quality
	})
	return candidates[0].tag
}

func actorFromRequest(r *http.Request) commands.Actor {
	return commands.Actor{
		ActorID:  r.Header.Get(HeaderActorID),
		UserID:   r.Header.Get(HeaderUserID),
		TenantID: r.Header.Get(HeaderTenantID),
	}
}
