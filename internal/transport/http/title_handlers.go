package http

import (
	"net/http"
	"strconv"

	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/store"

	"github.com/go-chi/chi/v5"
)

// pathUint parses a numeric path segment; a malformed id behaves like
// an unknown one.
func pathUint(r *http.Request, name string) (uint, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, domain.ErrNotFound
	}
	return uint(v), nil
}

func (h *Handler) listTitles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.TitleFilter{
		CategorySlug: q.Get("category"),
		GenreSlug:    q.Get("genre"),
		Name:         q.Get("name"),
	}
	if raw := q.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, domain.NewValidationError("year", "enter a valid integer"))
			return
		}
		f.Year = &year
	}

	p := h.parsePage(r)
	titles, ratings, total, err := h.catalog.ListTitles(r.Context(), f, p.limit, p.offset)
	if err != nil {
		writeError(w, err)
		return
	}

	results := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		var rating *float64
		if v, ok := ratings[titles[i].ID]; ok {
			rating = &v
		}
		results = append(results, dto.NewTitleResponse(&titles[i], rating))
	}
	writeJSON(w, http.StatusOK, newPage(r, total, p, results))
}

func (h *Handler) createTitle(w http.ResponseWriter, r *http.Request) {
	var req dto.TitleWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	title, err := h.catalog.CreateTitle(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewTitleResponse(title, nil))
}

func (h *Handler) getTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "titleID")
	if err != nil {
		writeError(w, err)
		return
	}
	title, rating, err := h.catalog.GetTitle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTitleResponse(title, rating))
}

func (h *Handler) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "titleID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req dto.TitleWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	title, err := h.catalog.UpdateTitle(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTitleResponse(title, nil))
}

func (h *Handler) patchTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "titleID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req dto.TitlePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	title, err := h.catalog.PatchTitle(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewTitleResponse(title, nil))
}

func (h *Handler) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUint(r, "titleID")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.catalog.DeleteTitle(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
