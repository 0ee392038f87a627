package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// Handlers exposes the dashboard JSON API backed by shared commands and
// queries.
type Handlers struct {
	Executor Executor
	Page     gocommand.Querier[queries.PageInput, dashboard.PagePayload]
	Pages    gocommand.Querier[dashboard.ViewerContext, []dashboard.PageSummary]
	Records  gocommand.Querier[queries.RecordsInput, []datatable.Record]

	Broadcast *dashboard.BroadcastHook
}

// Routes registers every handler on mux.
func (h *Handlers) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pages", h.HandlePages)
	mux.HandleFunc("GET /api/pages/{page}", h.HandlePage)
	mux.HandleFunc("POST /api/pages/{page}/filters", h.HandleFilters)
	mux.HandleFunc("DELETE /api/pages/{page}/filters", h.HandleResetFilters)
	mux.HandleFunc("POST /api/pages/{page}/sort", h.HandleSort)
	mux.HandleFunc("POST /api/pages/{page}/goto", h.HandleGoToPage)
	mux.HandleFunc("POST /api/pages/{page}/reload", h.HandleReload)
	mux.HandleFunc("POST /api/pages/{page}/actions/{action}", h.HandleAction)
	mux.HandleFunc("GET /api/records/{entity}", h.HandleListRecords)
	mux.HandleFunc("GET /api/records/{entity}/{id}", h.HandleGetRecord)
	mux.HandleFunc("POST /api/records/{entity}", h.HandleCreateRecord)
	mux.HandleFunc("POST /api/records/{entity}/{id}", h.HandleUpdateRecord)
	mux.HandleFunc("DELETE /api/records/{entity}/{id}", h.HandleDeleteRecord)
	if h.Broadcast != nil {
		mux.HandleFunc("GET /ws", h.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET /events", h.Broadcast.ServeSSE)
	}
}

func (h *Handlers) HandlePages(w http.ResponseWriter, r *http.Request) {
	if h.Pages == nil {
		writeError(w, errCommandUnavailable)
		return
	}
	pages, err := h.Pages.Query(r.Context(), ViewerFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	h.respondPage(w, r, ViewerFromRequest(r), r.PathValue("page"))
}

func (h *Handlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	var input commands.ApplyFiltersInput
	if !decode(w, r, &input) {
		return
	}
	input.Viewer = ViewerFromRequest(r)
	input.Page = r.PathValue("page")
	if err := h.executor().ApplyFilters(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondPage(w, r, input.Viewer, input.Page)
}

func (h *Handlers) HandleResetFilters(w http.ResponseWriter, r *http.Request) {
	input := commands.ResetFiltersInput{Viewer: ViewerFromRequest(r), Page: r.PathValue("page")}
	if err := h.executor().ResetFilters(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondPage(w, r, input.Viewer, input.Page)
}

func (h *Handlers) HandleSort(w http.ResponseWriter, r *http.Request) {
	var input commands.ToggleSortInput
	if !decode(w, r, &input) {
		return
	}
	input.Viewer = ViewerFromRequest(r)
	input.Page = r.PathValue("page")
	if err := h.executor().ToggleSort(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondPage(w, r, input.Viewer, input.Page)
}

func (h *Handlers) HandleGoToPage(w http.ResponseWriter, r *http.Request) {
	var input commands.GoToPageInput
	if !decode(w, r, &input) {
		return
	}
	input.Viewer = ViewerFromRequest(r)
	input.Page = r.PathValue("page")
	if err := h.executor().GoToPage(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondPage(w, r, input.Viewer, input.Page)
}

// HandleReload responds with the page even when the load failed; the error
// panel in the payload carries the failure.
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	input := commands.ReloadInput{Viewer: ViewerFromRequest(r), Page: r.PathValue("page")}
	if err := h.executor().Reload(r.Context(), input); err != nil && errors.Is(err, errCommandUnavailable) {
		writeError(w, err)
		return
	}
	h.respondPage(w, r, input.Viewer, input.Page)
}

func (h *Handlers) HandleAction(w http.ResponseWriter, r *http.Request) {
	var input commands.RunActionInput
	if r.ContentLength > 0 && !decode(w, r, &input.Request) {
		return
	}
	var result dashboard.ActionResult
	input.Viewer = ViewerFromRequest(r)
	input.Actor = actorFromRequest(r)
	input.Request.Page = r.PathValue("page")
	input.Request.Action = r.PathValue("action")
	input.Result = &result
	if err := h.executor().RunAction(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	h.respondRecords(w, r, queries.RecordsInput{Entity: r.PathValue("entity")}, false)
}

func (h *Handlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.respondRecords(w, r, queries.RecordsInput{Entity: r.PathValue("entity"), ID: id}, true)
}

func (h *Handlers) HandleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var data datatable.Record
	if !decode(w, r, &data) {
		return
	}
	var created datatable.Record
	input := commands.CreateRecordInput{
		Viewer: ViewerFromRequest(r),
		Actor:  actorFromRequest(r),
		Entity: r.PathValue("entity"),
		Data:   data,
		Result: &created,
	}
	if err := h.executor().CreateRecord(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) HandleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var data datatable.Record
	if !decode(w, r, &data) {
		return
	}
	var updated datatable.Record
	input := commands.UpdateRecordInput{
		Viewer: ViewerFromRequest(r),
		Actor:  actorFromRequest(r),
		Entity: r.PathValue("entity"),
		ID:     id,
		Data:   data,
		Result: &updated,
	}
	if err := h.executor().UpdateRecord(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) HandleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	input := commands.DeleteRecordInput{
		Viewer: ViewerFromRequest(r),
		Actor:  actorFromRequest(r),
		Entity: r.PathValue("entity"),
		ID:     id,
	}
	if err := h.executor().DeleteRecord(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) respondPage(w http.ResponseWriter, r *http.Request, viewer dashboard.ViewerContext, code string) {
	if h.Page == nil {
		writeError(w, errCommandUnavailable)
		return
	}
	payload, err := h.Page.Query(r.Context(), queries.PageInput{Viewer: viewer, Page: code})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) respondRecords(w http.ResponseWriter, r *http.Request, input queries.RecordsInput, single bool) {
	if h.Records == nil {
		writeError(w, errCommandUnavailable)
		return
	}
	records, err := h.Records.Query(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	if single && len(records) == 1 {
		writeJSON(w, http.StatusOK, records[0])
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handlers) executor() Executor {
	if h.Executor == nil {
		return &CommandExecutor{}
	}
	return h.Executor
}

// StatusFor maps a dashboard error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case store.IsNotFound(err):
		return http.StatusNotFound
	case store.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errCommandUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
