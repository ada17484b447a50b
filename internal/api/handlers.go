// Package api is the thin HTTP layer over the loaded snapshot: per-day
// views, timelines, run history and on-demand narrative summaries.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/piquique/daybook/internal/api/respond"
	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/model"
	"github.com/piquique/daybook/internal/narrative"
	"github.com/piquique/daybook/internal/pipeline"
	"github.com/piquique/daybook/internal/snapshot"
	"github.com/piquique/daybook/internal/store"
)

// Generator abstracts the narrative model so handlers can be tested
// without a running Ollama.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Handler serves the read API. All state lives in the explicitly passed
// snapshot handle; reloads swap it atomically.
type Handler struct {
	cfg  *config.Config
	snap *snapshot.Handle
	st   store.Store
	gen  Generator
}

func NewHandler(cfg *config.Config, snap *snapshot.Handle, st store.Store, gen Generator) *Handler {
	return &Handler{cfg: cfg, snap: snap, st: st, gen: gen}
}

// NewRouter wires every route.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Status).Methods(http.MethodGet)
	r.HandleFunc("/api/health", h.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/v0/days", h.ListDays).Methods(http.MethodGet)
	r.HandleFunc("/v0/days/{date}", h.Day).Methods(http.MethodGet)
	r.HandleFunc("/v0/days/{date}/timeline", h.Timeline).Methods(http.MethodGet)
	r.HandleFunc("/v0/runs", h.Runs).Methods(http.MethodGet)
	r.HandleFunc("/v0/reload", h.Reload).Methods(http.MethodPost)
	r.HandleFunc("/diario/{date}", h.Diario).Methods(http.MethodGet)
	return r
}

// Status handles GET /
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"service": "daybook",
		"days":    len(h.snap.Current().Days()),
	})
}

// Liveness handles GET /api/health
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.st != nil {
		if err := h.st.HealthCheck(r.Context()); err != nil {
			respond.WriteError(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ListDays handles GET /v0/days
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"days": h.snap.Current().Days(),
	})
}

// Day handles GET /v0/days/{date}
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	day, ok := h.pathDay(w, r)
	if !ok {
		return
	}
	view, err := h.snap.Current().View(day)
	if err != nil {
		respond.WriteNotFound(w, "no data for "+day.String())
		return
	}
	respond.WriteJSON(w, http.StatusOK, view)
}

// Timeline handles GET /v0/days/{date}/timeline
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	day, ok := h.pathDay(w, r)
	if !ok {
		return
	}
	view, err := h.snap.Current().View(day)
	if err != nil {
		respond.WriteNotFound(w, "no data for "+day.String())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"fecha":    day,
		"timeline": view.Timeline,
	})
}

// Runs handles GET /v0/runs
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.st == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]any{"runs": []store.Run{}})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.st.ListRuns(r.Context(), limit)
	if err != nil {
		respond.WriteInternalError(w, "listing runs failed")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// Reload handles POST /v0/reload
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.snap.Reload(); err != nil {
		respond.WriteInternalError(w, "reload failed: "+err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"rows":   h.snap.Current().Total,
	})
}

// Diario handles GET /diario/{date}: refresh the snapshot from the source
// exports, then narrate the requested day. A failed refresh falls back to
// the data already loaded rather than failing the request.
func (h *Handler) Diario(w http.ResponseWriter, r *http.Request) {
	day, ok := h.pathDay(w, r)
	if !ok {
		return
	}

	if _, err := pipeline.Run(r.Context(), h.cfg, h.st); err != nil {
		log.Warn().Err(err).Msg("refresh failed, serving previous snapshot")
	} else if err := h.snap.Reload(); err != nil {
		log.Warn().Err(err).Msg("snapshot reload failed after refresh")
	}

	view, err := h.snap.Current().View(day)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		respond.WriteInternalError(w, err.Error())
		return
	}

	if errors.Is(err, model.ErrNotFound) || narrative.Empty(view) {
		respond.WriteJSON(w, http.StatusOK, map[string]string{
			"fecha":   day.String(),
			"resumen": narrative.EmptyDayMessage,
		})
		return
	}

	if h.gen == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "narrative model not configured")
		return
	}
	text, err := h.gen.Generate(r.Context(), narrative.DayPrompt(view))
	if err != nil {
		respond.WriteInternalError(w, "generating summary failed: "+err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"fecha":   day.String(),
		"resumen": text,
	})
}

func (h *Handler) pathDay(w http.ResponseWriter, r *http.Request) (dates.Day, bool) {
	raw := mux.Vars(r)["date"]
	day, err := dates.ParseISO(raw)
	if err != nil {
		respond.WriteBadRequest(w, "date must be YYYY-MM-DD")
		return "", false
	}
	return day, true
}
