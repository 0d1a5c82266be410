package http

import (
	"net/http"

	"critica/internal/authz"
	"critica/internal/dto"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	p := h.parsePage(r)
	users, total, err := h.users.List(r.Context(), r.URL.Query().Get("search"), p.limit, p.offset)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, dto.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, total, p, results))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UserCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.Update(r.Context(), chi.URLParam(r, "username"), req, true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, _ := authz.UserFrom(r.Context())
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := authz.UserFrom(r.Context())

	var req dto.UserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	// Role changes are reserved to the admin collection route.
	updated, err := h.users.Update(r.Context(), user.Username, req, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(updated))
}
