package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkoelzer/songbase/internal/app"
	"github.com/mkoelzer/songbase/internal/http/dto"
	"github.com/mkoelzer/songbase/internal/logger"
	"github.com/mkoelzer/songbase/internal/store"
)

type Handler struct {
	Catalog *app.CatalogService
	Syncs   *app.SyncService
	Logger  *logger.Logger
}

func NewHandler(catalog *app.CatalogService, syncs *app.SyncService, log *logger.Logger) *Handler {
	return &Handler{Catalog: catalog, Syncs: syncs, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/catalog/snapshot", h.ImportSnapshot)

		r.Get("/songs", h.SearchSongs)
		r.Get("/songs/similar", h.FindSimilar)
		r.Get("/songs/facets/{column}", h.Facet)
		r.Get("/songs/{songID}", h.GetSong)

		r.Post("/syncs", h.RecordSync)
		r.Get("/syncs/{attemptID}", h.GetAttempt)
		r.Delete("/syncs/{attemptID}", h.RemoveSync)
		r.Put("/syncs/{attemptID}/pinned", h.SetPinned)
		r.Put("/syncs/{attemptID}/resources/{kind}", h.RecordResource)
		r.Delete("/syncs/{attemptID}/resources/{kind}", h.RemoveResource)

		r.Get("/stats", h.Stats)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			h.Logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps store errors to status codes: validation failures are 400,
// missing references 404, everything else 500.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validation *store.ValidationError
	switch {
	case errors.As(err, &validation):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": validation.Error()})
	case errors.Is(err, store.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		h.Logger.Error("Request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) writeValidationErrors(w http.ResponseWriter, errs []dto.ValidationError) {
	h.writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  dto.ToResponse(errs),
		"fields": dto.ToMap(errs),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}
