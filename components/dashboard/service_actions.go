package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// Page codes of the built-in manifest.
const (
	PageOverview          = "overview"
	PageBacklinks         = "backlinks"
	PageKeywords          = "keywords"
	PageSiteAudit         = "site-audit"
	PageCompetitors       = "competitors"
	PageRankTracker       = "rank-tracker"
	PageLinkOpportunities = "link-opportunities"
)

// Actions accepted by RunAction.
const (
	ActionAnalyze          = "analyze"
	ActionResearch         = "research"
	ActionAudit            = "audit"
	ActionAddCompetitor    = "add_competitor"
	ActionRemoveCompetitor = "remove_competitor"
	ActionCompare          = "compare"
	ActionSharedKeywords   = "shared_keywords"
	ActionTrackKeyword     = "track_keyword"
	ActionUntrackKeyword   = "untrack_keyword"
	ActionUpdateRankings   = "update_rankings"
	ActionKeywordHistory   = "keyword_history"
	ActionContact          = "contact"
	ActionAcquire          = "acquire"
)

var actionPages = map[string]string{
	ActionAnalyze:          PageOverview,
	ActionResearch:         PageKeywords,
	ActionAudit:            PageSiteAudit,
	ActionAddCompetitor:    PageCompetitors,
	ActionRemoveCompetitor: PageCompetitors,
	ActionCompare:          PageCompetitors,
	ActionSharedKeywords:   PageCompetitors,
	ActionTrackKeyword:     PageRankTracker,
	ActionUntrackKeyword:   PageRankTracker,
	ActionUpdateRankings:   PageRankTracker,
	ActionKeywordHistory:   PageRankTracker,
	ActionContact:          PageLinkOpportunities,
	ActionAcquire:          PageLinkOpportunities,
}

// ActionRequest names an action and its argument. Target carries the domain,
// keyword or seed; ID the record an opportunity action applies to. Domain
// comparisons read Targets, or a comma separated Target.
type ActionRequest struct {
	Page    string   `json:"page,omitempty"`
	Action  string   `json:"action"`
	Target  string   `json:"target,omitempty"`
	Targets []string `json:"targets,omitempty"`
	ID      int      `json:"id,omitempty"`
}

func (req ActionRequest) domains() []string {
	raw := req.Targets
	if len(raw) == 0 && req.Target != "" {
		raw = strings.Split(req.Target, ",")
	}
	out := make([]string, 0, len(raw))
	for _, d := range raw {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// ActionResult carries whatever an action produced.
type ActionResult struct {
	Action   string               `json:"action"`
	Record   datatable.Record     `json:"record,omitempty"`
	Records  []datatable.Record   `json:"records,omitempty"`
	History  []store.HistoryPoint `json:"history,omitempty"`
	Rankings *store.RankingUpdate `json:"rankings,omitempty"`
}

// RunAction dispatches req to the matching action. When req.Page is set the
// page must list the action in its manifest.
func (s *Service) RunAction(ctx context.Context, viewer ViewerContext, req ActionRequest) (ActionResult, error) {
	action := strings.TrimSpace(req.Action)
	if _, ok := actionPages[action]; !ok {
		return ActionResult{}, store.Invalid("action", "unknown action %q", action)
	}
	if req.Page != "" {
		def, ok := s.opts.Pages.Page(req.Page)
		if !ok {
			return ActionResult{}, &store.Error{Kind: store.ErrNotFound, Entity: "page", Message: req.Page}
		}
		if !def.HasAction(action) {
			return ActionResult{}, store.Invalid("action", "%s is not available on %s", action, req.Page)
		}
	}

	result := ActionResult{Action: action}
	var err error
	switch action {
	case ActionAnalyze:
		result.Record, err = s.AnalyzeDomain(ctx, viewer, req.Target)
	case ActionResearch:
		result.Records, err = s.ResearchKeywords(ctx, viewer, req.Target)
	case ActionAudit:
		result.Records, err = s.RunAudit(ctx, viewer, req.Target)
	case ActionAddCompetitor:
		result.Record, err = s.AddCompetitor(ctx, viewer, req.Target)
	case ActionRemoveCompetitor:
		err = s.RemoveCompetitor(ctx, viewer, req.Target)
	case ActionCompare:
		result.Records, err = s.CompareDomains(ctx, viewer, req.domains())
	case ActionSharedKeywords:
		domains := req.domains()
		if len(domains) != 2 {
			err = s.fail(ctx, viewer, PageCompetitors, ActionSharedKeywords, "Failed to load shared keywords",
				store.Invalid(store.EntityCompetitors, "shared keywords need exactly two domains"))
			break
		}
		result.Records, err = s.SharedKeywords(ctx, viewer, domains[0], domains[1])
	case ActionTrackKeyword:
		result.Record, err = s.TrackKeyword(ctx, viewer, req.Target)
	case ActionUntrackKeyword:
		err = s.UntrackKeyword(ctx, viewer, req.Target)
	case ActionUpdateRankings:
		var update store.RankingUpdate
		update, err = s.UpdateRankings(ctx, viewer)
		result.Rankings = &update
	case ActionKeywordHistory:
		result.History, err = s.KeywordHistory(ctx, viewer, req.Target)
	case ActionContact:
		result.Record, err = s.ContactOpportunity(ctx, viewer, req.ID)
	case ActionAcquire:
		result.Record, err = s.AcquireOpportunity(ctx, viewer, req.ID)
	}
	if err != nil {
		return ActionResult{}, err
	}
	return result, nil
}

// AnalyzeDomain analyzes url and makes it the current domain of the overview.
func (s *Service) AnalyzeDomain(ctx context.Context, viewer ViewerContext, url string) (datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	url = strings.TrimSpace(url)
	record, err := analyzer.AnalyzeDomain(ctx, url)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageOverview, ActionAnalyze, "Failed to analyze domain", err)
	}
	sess, err := s.opts.Sessions.Session(ctx, viewer)
	if err != nil {
		return nil, err
	}
	sess.SetDomain(record)
	s.emitActivity(ctx, viewer, "dashboard.domain.analyze", store.EntityDomains, 0, map[string]any{"domain": url})
	s.recordTelemetry(ctx, "dashboard.action", map[string]any{"page": PageOverview, "action": ActionAnalyze})
	s.notify(ctx, viewer, LevelSuccess, PageOverview, ActionAnalyze, "Analysis complete for "+url)
	return record, nil
}

// AddCompetitor analyzes domain and stores it as a competitor.
func (s *Service) AddCompetitor(ctx context.Context, viewer ViewerContext, domain string) (datatable.Record, error) {
	domain = strings.TrimSpace(domain)
	record, err := s.addCompetitor(ctx, viewer, domain)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageCompetitors, ActionAddCompetitor, "Failed to add competitor", err)
	}
	s.notify(ctx, viewer, LevelSuccess, PageCompetitors, ActionAddCompetitor, fmt.Sprintf("Added %s as competitor", domain))
	return record, nil
}

func (s *Service) addCompetitor(ctx context.Context, viewer ViewerContext, domain string) (datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, store.EntityCompetitors, "domain", domain); err != nil {
		return nil, err
	}
	profile, err := analyzer.AnalyzeCompetitor(ctx, domain)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, viewer, store.EntityCompetitors, profile)
}

// RemoveCompetitor deletes the competitor tracked under domain.
func (s *Service) RemoveCompetitor(ctx context.Context, viewer ViewerContext, domain string) error {
	domain = strings.TrimSpace(domain)
	if err := s.removeBy(ctx, viewer, store.EntityCompetitors, "domain", domain); err != nil {
		return s.fail(ctx, viewer, PageCompetitors, ActionRemoveCompetitor, "Failed to remove competitor", err)
	}
	s.notify(ctx, viewer, LevelInfo, PageCompetitors, ActionRemoveCompetitor, fmt.Sprintf("Removed %s from competitors", domain))
	return nil
}

// TrackKeyword starts tracking the ranking of keyword.
func (s *Service) TrackKeyword(ctx context.Context, viewer ViewerContext, keyword string) (datatable.Record, error) {
	keyword = strings.TrimSpace(keyword)
	record, err := s.trackKeyword(ctx, viewer, keyword)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageRankTracker, ActionTrackKeyword, "Failed to add keyword", err)
	}
	s.notify(ctx, viewer, LevelSuccess, PageRankTracker, ActionTrackKeyword, fmt.Sprintf("Added %q to rank tracking", keyword))
	return record, nil
}

func (s *Service) trackKeyword(ctx context.Context, viewer ViewerContext, keyword string) (datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, store.EntityRankings, "keyword", keyword); err != nil {
		return nil, err
	}
	entry, err := analyzer.TrackKeyword(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, viewer, store.EntityRankings, entry)
}

// UntrackKeyword stops tracking keyword.
func (s *Service) UntrackKeyword(ctx context.Context, viewer ViewerContext, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if err := s.removeBy(ctx, viewer, store.EntityRankings, "keyword", keyword); err != nil {
		return s.fail(ctx, viewer, PageRankTracker, ActionUntrackKeyword, "Failed to remove keyword", err)
	}
	s.notify(ctx, viewer, LevelInfo, PageRankTracker, ActionUntrackKeyword, fmt.Sprintf("Removed %q from tracking", keyword))
	return nil
}

// UpdateRankings refreshes every tracked position and reports the summary.
func (s *Service) UpdateRankings(ctx context.Context, viewer ViewerContext) (store.RankingUpdate, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return store.RankingUpdate{}, err
	}
	update, err := analyzer.UpdateRankings(ctx)
	if err != nil {
		return store.RankingUpdate{}, s.fail(ctx, viewer, PageRankTracker, ActionUpdateRankings, "Failed to update rankings", err)
	}
	s.emitActivity(ctx, viewer, "dashboard.rankings.update", store.EntityRankings, 0, map[string]any{
		"updated":  update.Updated,
		"improved": update.Improved,
		"declined": update.Declined,
	})
	s.recordTelemetry(ctx, "dashboard.action", map[string]any{"page": PageRankTracker, "action": ActionUpdateRankings})
	s.notify(ctx, viewer, LevelSuccess, PageRankTracker, ActionUpdateRankings, fmt.Sprintf(
		"Rankings updated: %d checked, %d improved, %d declined", update.Updated, update.Improved, update.Declined))
	return update, nil
}

// CompareDomains profiles domains side by side. Without domains it compares
// the tracked competitors.
func (s *Service) CompareDomains(ctx context.Context, viewer ViewerContext, domains []string) ([]datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		domains, err = s.trackedDomains(ctx)
		if err != nil {
			return nil, s.fail(ctx, viewer, PageCompetitors, ActionCompare, "Failed to compare domains", err)
		}
	}
	profiles, err := analyzer.CompareDomains(ctx, domains)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageCompetitors, ActionCompare, "Failed to compare domains", err)
	}
	s.recordTelemetry(ctx, "dashboard.action", map[string]any{"page": PageCompetitors, "action": ActionCompare})
	s.notify(ctx, viewer, LevelSuccess, PageCompetitors, ActionCompare, fmt.Sprintf("Compared %d domains", len(profiles)))
	return profiles, nil
}

// SharedKeywords lists the keywords first and second both rank for.
func (s *Service) SharedKeywords(ctx context.Context, viewer ViewerContext, first, second string) ([]datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	keywords, err := analyzer.SharedKeywords(ctx, strings.TrimSpace(first), strings.TrimSpace(second))
	if err != nil {
		return nil, s.fail(ctx, viewer, PageCompetitors, ActionSharedKeywords, "Failed to load shared keywords", err)
	}
	s.recordTelemetry(ctx, "dashboard.action", map[string]any{"page": PageCompetitors, "action": ActionSharedKeywords})
	return keywords, nil
}

func (s *Service) trackedDomains(ctx context.Context) ([]string, error) {
	competitors, err := s.List(ctx, store.EntityCompetitors)
	if err != nil {
		return nil, err
	}
	domains := make([]string, 0, len(competitors))
	for _, c := range competitors {
		if d := datatable.Text(c["domain"]); d != "" {
			domains = append(domains, d)
		}
	}
	return domains, nil
}

// KeywordHistory returns the weekly ranking history of keyword.
func (s *Service) KeywordHistory(ctx context.Context, viewer ViewerContext, keyword string) ([]store.HistoryPoint, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	history, err := analyzer.KeywordHistory(ctx, keyword)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageRankTracker, ActionKeywordHistory, "Failed to load keyword history", err)
	}
	s.recordTelemetry(ctx, "dashboard.action", map[string]any{"page": PageRankTracker, "action": ActionKeywordHistory})
	return history, nil
}

// ResearchKeywords stores the suggestions derived from seed as keywords.
func (s *Service) ResearchKeywords(ctx context.Context, viewer ViewerContext, seed string) ([]datatable.Record, error) {
	created, err := s.researchKeywords(ctx, viewer, seed)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageKeywords, ActionResearch, "Failed to research keywords", err)
	}
	s.notify(ctx, viewer, LevelSuccess, PageKeywords, ActionResearch, fmt.Sprintf("Found %d keyword suggestions", len(created)))
	return created, nil
}

func (s *Service) researchKeywords(ctx context.Context, viewer ViewerContext, seed string) ([]datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	suggestions, err := analyzer.ResearchKeywords(ctx, seed)
	if err != nil {
		return nil, err
	}
	created := make([]datatable.Record, 0, len(suggestions))
	for _, suggestion := range suggestions {
		record, err := s.create(ctx, viewer, store.EntityKeywords, suggestion)
		if err != nil {
			return created, err
		}
		created = append(created, record)
	}
	return created, nil
}

// RunAudit audits domain and replaces the stored issues with the findings.
// An empty domain audits the current overview domain.
func (s *Service) RunAudit(ctx context.Context, viewer ViewerContext, domain string) ([]datatable.Record, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		if sess, err := s.opts.Sessions.Session(ctx, viewer); err == nil {
			domain = datatable.Text(s.currentDomain(ctx, sess)["url"])
		}
	}
	issues, err := s.runAudit(ctx, viewer, domain)
	if err != nil {
		return nil, s.fail(ctx, viewer, PageSiteAudit, ActionAudit, "Failed to run site audit", err)
	}
	s.notify(ctx, viewer, LevelSuccess, PageSiteAudit, ActionAudit, "Audit completed for "+domain)
	return issues, nil
}

func (s *Service) runAudit(ctx context.Context, viewer ViewerContext, domain string) ([]datatable.Record, error) {
	analyzer, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	findings, err := analyzer.RunAudit(ctx, domain)
	if err != nil {
		return nil, err
	}
	repo, err := s.repository(store.EntityAuditIssues)
	if err != nil {
		return nil, err
	}
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, issue := range existing {
		if id, ok := issue.ID(); ok {
			if _, err := repo.Delete(ctx, id); err != nil && !store.IsNotFound(err) {
				return nil, err
			}
		}
	}
	issues := make([]datatable.Record, 0, len(findings))
	for _, finding := range findings {
		finding = finding.Clone()
		delete(finding, datatable.IDField)
		if err := s.opts.Validator.Validate(store.EntityAuditIssues, finding, false); err != nil {
			return nil, err
		}
		record, err := repo.Create(ctx, finding)
		if err != nil {
			return nil, err
		}
		issues = append(issues, record)
	}
	s.syncControllers(ctx, viewer, store.EntityAuditIssues, func(ctrl *PageController) {
		ctrl.Replace(issues)
	})
	s.emitActivity(ctx, viewer, "dashboard.audit.run", store.EntityAuditIssues, 0, map[string]any{
		"domain": domain,
		"issues": len(issues),
		"health": HealthScore(issues),
	})
	s.recordTelemetry(ctx, "dashboard.action", map[string]any{"page": PageSiteAudit, "action": ActionAudit})
	return issues, nil
}

// ContactOpportunity marks a new link opportunity as contacted.
func (s *Service) ContactOpportunity(ctx context.Context, viewer ViewerContext, id int) (datatable.Record, error) {
	record, err := s.advanceOpportunity(ctx, viewer, id, "new", "contacted", "contactedAt")
	if err != nil {
		return nil, s.fail(ctx, viewer, PageLinkOpportunities, ActionContact, "Failed to update opportunity status", err)
	}
	s.notify(ctx, viewer, LevelSuccess, PageLinkOpportunities, ActionContact, "Website contacted successfully")
	return record, nil
}

// AcquireOpportunity marks a contacted link opportunity as acquired.
func (s *Service) AcquireOpportunity(ctx context.Context, viewer ViewerContext, id int) (datatable.Record, error) {
	record, err := s.advanceOpportunity(ctx, viewer, id, "contacted", "acquired", "acquiredAt")
	if err != nil {
		return nil, s.fail(ctx, viewer, PageLinkOpportunities, ActionAcquire, "Failed to update opportunity status", err)
	}
	s.notify(ctx, viewer, LevelSuccess, PageLinkOpportunities, ActionAcquire, "Opportunity marked as acquired")
	return record, nil
}

func (s *Service) advanceOpportunity(ctx context.Context, viewer ViewerContext, id int, from, to, stampField string) (datatable.Record, error) {
	repo, err := s.repository(store.EntityLinkOpportunities)
	if err != nil {
		return nil, err
	}
	current, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status := datatable.Text(current["status"]); status != from {
		return nil, store.Invalid(store.EntityLinkOpportunities, "opportunity %d is %s, expected %s", id, status, from)
	}
	return s.update(ctx, viewer, store.EntityLinkOpportunities, id, datatable.Record{
		"status":   to,
		stampField: s.now().Format(time.RFC3339),
	})
}

// ensureAbsent fails with a validation error when a record of entity already
// has field equal to value.
func (s *Service) ensureAbsent(ctx context.Context, entity, field, value string) error {
	if value == "" {
		return store.Invalid(entity, "%s is required", field)
	}
	repo, err := s.repository(entity)
	if err != nil {
		return err
	}
	_, err = store.FindFirst(ctx, repo, field, value)
	switch {
	case err == nil:
		return store.Invalid(entity, "%s is already tracked", value)
	case store.IsNotFound(err):
		return nil
	default:
		return err
	}
}

func (s *Service) removeBy(ctx context.Context, viewer ViewerContext, entity, field, value string) error {
	repo, err := s.repository(entity)
	if err != nil {
		return err
	}
	record, err := store.FindFirst(ctx, repo, field, value)
	if err != nil {
		return err
	}
	id, _ := record.ID()
	return s.delete(ctx, viewer, entity, id)
}

func (s *Service) now() time.Time {
	if s.opts.Clock != nil {
		return s.opts.Clock().UTC()
	}
	return time.Now().UTC()
}
