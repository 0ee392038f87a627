package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// ViewerResolver converts a router.Context into a dashboard.ViewerContext.
type ViewerResolver func(router.Context) dashboard.ViewerContext

// Queries groups the read side used by the JSON API.
type Queries struct {
	Page    gocommand.Querier[queries.PageInput, dashboard.PagePayload]
	Pages   gocommand.Querier[dashboard.ViewerContext, []dashboard.PageSummary]
	Records gocommand.Querier[queries.RecordsInput, []datatable.Record]
}

// Config wires go-router with the dashboard pages, JSON API, and
// notification stream.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *dashboard.Controller
	Pages          dashboard.PageRegistry
	API            httpapi.Executor
	Queries        Queries
	Broadcast      *dashboard.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths of the non-page endpoints.
type RouteConfig struct {
	API       string
	WebSocket string
}

// Register mounts one HTML route per registered page, plus the JSON API and
// the WebSocket stream when configured.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	if cfg.Pages == nil {
		return errors.New("gorouter: page registry is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}

	r := cfg.Router
	if cfg.BasePath != "" {
		r = cfg.Router.Group(cfg.BasePath)
	}

	for _, def := range cfg.Pages.Pages() {
		r.Get(def.Route, pageHandler(cfg, def, resolver))
	}

	if cfg.API != nil {
		registerAPI(r.Group(routes.API), cfg.API, cfg.Queries, resolver)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(r, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func pageHandler[T any](cfg Config[T], def dashboard.PageDefinition, resolver ViewerResolver) router.HandlerFunc {
	filterKeys := httpapi.FilterKeys(def)
	return router.WrapHandler(func(ctx router.Context) error {
		viewer := resolver(ctx)
		if cfg.API != nil {
			in := httpapi.ParseInteraction(func(key string) string { return ctx.Query(key) }, filterKeys)
			if !in.Empty() {
				if err := in.Apply(ctx.Context(), cfg.API, viewer, def.Code); err != nil {
					return respondError(ctx, err)
				}
			}
		}
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(ctx.Context(), viewer, def.Code, &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	})
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, q Queries, resolver ViewerResolver) {
	page := func(ctx router.Context, viewer dashboard.ViewerContext, code string) error {
		if q.Page == nil {
			return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}
		payload, err := q.Page.Query(ctx.Context(), queries.PageInput{Viewer: viewer, Page: code})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}

	if q.Pages != nil {
		r.Get("/pages", router.WrapHandler(func(ctx router.Context) error {
			pages, err := q.Pages.Query(ctx.Context(), resolver(ctx))
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, pages)
		}))
	}

	r.Get("/pages/:page", router.WrapHandler(func(ctx router.Context) error {
		return page(ctx, resolver(ctx), ctx.Param("page"))
	}))

	r.Post("/pages/:page/filters", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ApplyFiltersInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		payload.Page = ctx.Param("page")
		if err := api.ApplyFilters(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return page(ctx, payload.Viewer, payload.Page)
	}))

	r.Delete("/pages/:page/filters", router.WrapHandler(func(ctx router.Context) error {
		payload := commands.ResetFiltersInput{Viewer: resolver(ctx), Page: ctx.Param("page")}
		if err := api.ResetFilters(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return page(ctx, payload.Viewer, payload.Page)
	}))

	r.Post("/pages/:page/sort", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ToggleSortInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		payload.Page = ctx.Param("page")
		if err := api.ToggleSort(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return page(ctx, payload.Viewer, payload.Page)
	}))

	r.Post("/pages/:page/goto", router.WrapHandler(func(ctx router.Context) error {
		var payload commands.GoToPageInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Viewer = resolver(ctx)
		payload.Page = ctx.Param("page")
		if err := api.GoToPage(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return page(ctx, payload.Viewer, payload.Page)
	}))

	r.Post("/pages/:page/reload", router.WrapHandler(func(ctx router.Context) error {
		payload := commands.ReloadInput{Viewer: resolver(ctx), Page: ctx.Param("page")}
		// load failures surface through the payload error panel
		_ = api.Reload(ctx.Context(), payload)
		return page(ctx, payload.Viewer, payload.Page)
	}))

	r.Post("/pages/:page/actions/:action", router.WrapHandler(func(ctx router.Context) error {
		var result dashboard.ActionResult
		payload := commands.RunActionInput{Viewer: resolver(ctx), Result: &result}
		if body := ctx.Body(); len(body) > 0 {
			if err := json.Unmarshal(body, &payload.Request); err != nil {
				return respondStatus(ctx, http.StatusBadRequest, err)
			}
		}
		payload.Actor = actorFromContext(ctx)
		payload.Request.Page = ctx.Param("page")
		payload.Request.Action = ctx.Param("action")
		if err := api.RunAction(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	if q.Records != nil {
		r.Get("/records/:entity", router.WrapHandler(func(ctx router.Context) error {
			records, err := q.Records.Query(ctx.Context(), queries.RecordsInput{Entity: ctx.Param("entity")})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, records)
		}))

		r.Get("/records/:entity/:id", router.WrapHandler(func(ctx router.Context) error {
			id, err := store.ParseID(ctx.Param("id"))
			if err != nil {
				return respondError(ctx, err)
			}
			records, err := q.Records.Query(ctx.Context(), queries.RecordsInput{Entity: ctx.Param("entity"), ID: id})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, records[0])
		}))
	}

	r.Post("/records/:entity", router.WrapHandler(func(ctx router.Context) error {
		var data datatable.Record
		if err := json.Unmarshal(ctx.Body(), &data); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		var created datatable.Record
		payload := commands.CreateRecordInput{
			Viewer: resolver(ctx),
			Actor:  actorFromContext(ctx),
			Entity: ctx.Param("entity"),
			Data:   data,
			Result: &created,
		}
		if err := api.CreateRecord(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, created)
	}))

	r.Post("/records/:entity/:id", router.WrapHandler(func(ctx router.Context) error {
		id, err := store.ParseID(ctx.Param("id"))
		if err != nil {
			return respondError(ctx, err)
		}
		var data datatable.Record
		if err := json.Unmarshal(ctx.Body(), &data); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		var updated datatable.Record
		payload := commands.UpdateRecordInput{
			Viewer: resolver(ctx),
			Actor:  actorFromContext(ctx),
			Entity: ctx.Param("entity"),
			ID:     id,
			Data:   data,
			Result: &updated,
		}
		if err := api.UpdateRecord(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, updated)
	}))

	r.Delete("/records/:entity/:id", router.WrapHandler(func(ctx router.Context) error {
		id, err := store.ParseID(ctx.Param("id"))
		if err != nil {
			return respondError(ctx, err)
		}
		payload := commands.DeleteRecordInput{
			Viewer: resolver(ctx),
			Actor:  actorFromContext(ctx),
			Entity: ctx.Param("entity"),
			ID:     id,
		}
		if err := api.DeleteRecord(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case n, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(n); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) dashboard.ViewerContext {
	userID := ctx.Header(httpapi.HeaderUserID)
	if v, ok := ctx.Locals("user_id").(string); ok && v != "" {
		userID = v
	}
	locale := ctx.Query("locale")
	if v, ok := ctx.Locals("locale").(string); ok && v != "" {
		locale = v
	}
	return httpapi.Viewer(userID, locale, ctx.Header("Accept-Language"))
}

func actorFromContext(ctx router.Context) commands.Actor {
	actor := commands.Actor{
		ActorID:  ctx.Header(httpapi.HeaderActorID),
		UserID:   ctx.Header(httpapi.HeaderUserID),
		TenantID: ctx.Header(httpapi.HeaderTenantID),
	}
	if v, ok := ctx.Locals("user_id").(string); ok && v != "" {
		actor.UserID = v
	}
	return actor
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusFor(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.API == "" {
		routes.API = "/api"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
