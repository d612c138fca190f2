package httpapp

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkoelzer/songbase/internal/domain"
	"github.com/mkoelzer/songbase/internal/http/dto"
	"github.com/mkoelzer/songbase/internal/store"
)

func (h *Handler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var req dto.SnapshotRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidationErrors(w, errs)
		return
	}

	if err := h.Catalog.ImportSnapshot(req.ToDomain()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"songs": len(req.Songs)})
}

func (h *Handler) SearchSongs(w http.ResponseWriter, r *http.Request) {
	builder, errs := searchBuilderFromQuery(r)
	if len(errs) > 0 {
		h.writeValidationErrors(w, errs)
		return
	}

	songs, err := h.Catalog.SearchSongs(builder)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if songs == nil {
		songs = []domain.Song{}
	}
	h.writeJSON(w, http.StatusOK, songs)
}

func (h *Handler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	artist := r.URL.Query().Get("artist")
	title := r.URL.Query().Get("title")
	if artist == "" || title == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "artist and title are required"})
		return
	}

	ids, err := h.Catalog.Store.FindSimilar(artist, title)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []domain.SongID{}
	}
	h.writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) Facet(w http.ResponseWriter, r *http.Request) {
	column := store.FacetColumn(chi.URLParam(r, "column"))

	if text := r.URL.Query().Get("q"); text != "" {
		values, err := h.Catalog.Store.SearchFacet(column, text)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if values == nil {
			values = []string{}
		}
		h.writeJSON(w, http.StatusOK, values)
		return
	}

	facets, err := h.Catalog.Facet(column)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if facets == nil {
		facets = []domain.Facet{}
	}
	h.writeJSON(w, http.StatusOK, facets)
}

func (h *Handler) GetSong(w http.ResponseWriter, r *http.Request) {
	songID, ok := h.int64Param(w, r, "songID")
	if !ok {
		return
	}

	state, err := h.Catalog.GetSongState(domain.SongID(songID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if state.Attempts == nil {
		state.Attempts = []domain.SyncAttempt{}
	}
	if state.Selection == nil {
		state.Selection = []domain.ActiveSelection{}
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *Handler) RecordSync(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordSyncRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidationErrors(w, errs)
		return
	}

	attemptID, err := h.Syncs.RecordSync(
		domain.SongID(req.SongID), req.Path, req.Mtime, req.MetaTags, req.Pinned)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]domain.AttemptID{"attempt_id": attemptID})
}

func (h *Handler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := h.int64Param(w, r, "attemptID")
	if !ok {
		return
	}

	attempt, resources, err := h.Syncs.GetAttempt(domain.AttemptID(attemptID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if resources == nil {
		resources = []domain.ResourceRecord{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"attempt":   attempt,
		"resources": resources,
	})
}

func (h *Handler) RemoveSync(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := h.int64Param(w, r, "attemptID")
	if !ok {
		return
	}

	if err := h.Syncs.RemoveSync(domain.AttemptID(attemptID)); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) SetPinned(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := h.int64Param(w, r, "attemptID")
	if !ok {
		return
	}
	var req dto.PinRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.Syncs.SetPinned(domain.AttemptID(attemptID), req.Pinned); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"pinned": req.Pinned})
}

func (h *Handler) RecordResource(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := h.int64Param(w, r, "attemptID")
	if !ok {
		return
	}
	kind, errs := dto.ValidateKind(chi.URLParam(r, "kind"))
	if len(errs) > 0 {
		h.writeValidationErrors(w, errs)
		return
	}
	var req dto.RecordResourceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidationErrors(w, errs)
		return
	}

	err := h.Syncs.RecordResource(domain.AttemptID(attemptID), kind, req.Fname, req.Mtime, req.Resource)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"kind": string(kind)})
}

func (h *Handler) RemoveResource(w http.ResponseWriter, r *http.Request) {
	attemptID, ok := h.int64Param(w, r, "attemptID")
	if !ok {
		return
	}
	kind, errs := dto.ValidateKind(chi.URLParam(r, "kind"))
	if len(errs) > 0 {
		h.writeValidationErrors(w, errs)
		return
	}

	if err := h.Syncs.RemoveResource(domain.AttemptID(attemptID), kind); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Catalog.Stats()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || value <= 0 {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": name + " must be a positive integer"})
		return 0, false
	}
	return value, true
}

// searchBuilderFromQuery maps URL query parameters onto a SearchBuilder.
// Repeatable parameters (artist, title, edition, language, rating) combine as
// alternatives, matching the store's IN-clause semantics.
func searchBuilderFromQuery(r *http.Request) (*store.SearchBuilder, []dto.ValidationError) {
	q := r.URL.Query()
	builder := &store.SearchBuilder{
		Text:      q.Get("q"),
		Artists:   q["artist"],
		Titles:    q["title"],
		Editions:  q["edition"],
		Languages: q["language"],
	}
	var errs []dto.ValidationError

	if v := q.Get("golden_notes"); v != "" {
		golden, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, dto.ValidationError{Field: "golden_notes", Message: "must be true or false"})
		} else {
			builder.GoldenNotes = &golden
		}
	}
	for _, v := range q["rating"] {
		rating, err := strconv.Atoi(v)
		if err != nil || rating < 0 || rating > 5 {
			errs = append(errs, dto.ValidationError{Field: "rating", Message: "must be an integer between 0 and 5"})
			continue
		}
		builder.Ratings = append(builder.Ratings, rating)
	}
	if v := q.Get("downloaded"); v != "" {
		downloaded, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, dto.ValidationError{Field: "downloaded", Message: "must be true or false"})
		} else {
			builder.Downloaded = &downloaded
		}
	}
	for _, v := range q["views"] {
		viewRange, ok := parseViewRange(v)
		if !ok {
			errs = append(errs, dto.ValidationError{Field: "views", Message: "must be 'min' or 'min-max'"})
			continue
		}
		builder.Views = append(builder.Views, viewRange)
	}

	order := store.SongOrder(q.Get("order"))
	switch order {
	case store.OrderNone, store.OrderRelevance, store.OrderSongID, store.OrderArtist,
		store.OrderTitle, store.OrderLanguage, store.OrderEdition,
		store.OrderGoldenNotes, store.OrderRating, store.OrderViews:
		builder.Order = order
	default:
		errs = append(errs, dto.ValidationError{Field: "order", Message: "unknown order column"})
	}
	builder.Descending = q.Get("desc") == "true"

	if builder.Order == store.OrderNone && builder.Text != "" {
		builder.Order = store.OrderRelevance
	}
	return builder, errs
}

func parseViewRange(s string) (store.ViewRange, bool) {
	minPart, maxPart, hasMax := strings.Cut(s, "-")
	minViews, err := strconv.Atoi(minPart)
	if err != nil || minViews < 0 {
		return store.ViewRange{}, false
	}
	if !hasMax {
		return store.ViewRange{Min: minViews}, true
	}
	maxViews, err := strconv.Atoi(maxPart)
	if err != nil || maxViews < minViews {
		return store.ViewRange{}, false
	}
	return store.ViewRange{Min: minViews, Max: &maxViews}, true
}
