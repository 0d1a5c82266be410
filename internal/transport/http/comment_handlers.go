package http

import (
	"net/http"

	"critica/internal/authz"
	"critica/internal/domain"
	"critica/internal/dto"
)

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.reviewPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p := h.parsePage(r)
	comments, total, err := h.reviews.ListComments(r.Context(), titleID, reviewID, p.limit, p.offset)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		results = append(results, dto.NewCommentResponse(&comments[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, total, p, results))
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.reviewPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	user, _ := authz.UserFrom(r.Context())

	var req dto.CommentWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	comment, err := h.reviews.CreateComment(r.Context(), user, titleID, reviewID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewCommentResponse(comment))
}

func (h *Handler) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, err := h.commentPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	comment, err := h.reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCommentResponse(comment))
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, err := h.commentPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	comment, err := h.reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	user, _ := authz.UserFrom(r.Context())
	if !authz.CanModifyContent(user, comment.AuthorID) {
		writeError(w, domain.ErrPermissionDenied)
		return
	}

	var req dto.CommentWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.reviews.UpdateComment(r.Context(), titleID, reviewID, commentID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewCommentResponse(updated))
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, commentID, err := h.commentPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	comment, err := h.reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		writeError(w, err)
		return
	}
	user, _ := authz.UserFrom(r.Context())
	if !authz.CanModifyContent(user, comment.AuthorID) {
		writeError(w, domain.ErrPermissionDenied)
		return
	}

	if err := h.reviews.DeleteComment(r.Context(), titleID, reviewID, commentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) commentPath(r *http.Request) (titleID, reviewID, commentID uint, err error) {
	titleID, reviewID, err = h.reviewPath(r)
	if err != nil {
		return 0, 0, 0, err
	}
	commentID, err = pathUint(r, "commentID")
	if err != nil {
		return 0, 0, 0, err
	}
	return titleID, reviewID, commentID, nil
}
