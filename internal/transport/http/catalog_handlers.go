package http

import (
	"net/http"

	"critica/internal/dto"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	p := h.parsePage(r)
	cats, total, err := h.catalog.ListCategories(r.Context(), r.URL.Query().Get("search"), p.limit, p.offset)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]dto.CategoryResponse, 0, len(cats))
	for i := range cats {
		results = append(results, dto.NewCategoryResponse(&cats[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, total, p, results))
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	cat, err := h.catalog.CreateCategory(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewCategoryResponse(cat))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGenres(w http.ResponseWriter, r *http.Request) {
	p := h.parsePage(r)
	genres, total, err := h.catalog.ListGenres(r.Context(), r.URL.Query().Get("search"), p.limit, p.offset)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		results = append(results, dto.NewGenreResponse(&genres[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, total, p, results))
}

func (h *Handler) createGenre(w http.ResponseWriter, r *http.Request) {
	var req dto.GenreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	genre, err := h.catalog.CreateGenre(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewGenreResponse(genre))
}

func (h *Handler) deleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteGenre(r.Context(), chi.URLParam(r, "slug")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
