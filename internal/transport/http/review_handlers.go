package http

import (
	"net/http"

	"critica/internal/authz"
	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/observability/metrics"
)

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, err := pathUint(r, "titleID")
	if err != nil {
		writeError(w, err)
		return
	}
	p := h.parsePage(r)
	reviews, total, err := h.reviews.ListReviews(r.Context(), titleID, p.limit, p.offset)
	if err != nil {
		writeError(w, err)
		return
	}
	results := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		results = append(results, dto.NewReviewResponse(&reviews[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, total, p, results))
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, err := pathUint(r, "titleID")
	if err != nil {
		writeError(w, err)
		return
	}
	user, _ := authz.UserFrom(r.Context())

	var req dto.ReviewWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.CreateReview(r.Context(), user, titleID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.ReviewsCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, dto.NewReviewResponse(review))
}

func (h *Handler) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.reviewPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReviewResponse(review))
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.reviewPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		writeError(w, err)
		return
	}
	user, _ := authz.UserFrom(r.Context())
	if !authz.CanModifyContent(user, review.AuthorID) {
		writeError(w, domain.ErrPermissionDenied)
		return
	}

	var req dto.ReviewWriteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.reviews.UpdateReview(r.Context(), titleID, reviewID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NewReviewResponse(updated))
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, err := h.reviewPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	review, err := h.reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		writeError(w, err)
		return
	}
	user, _ := authz.UserFrom(r.Context())
	if !authz.CanModifyContent(user, review.AuthorID) {
		writeError(w, domain.ErrPermissionDenied)
		return
	}

	if err := h.reviews.DeleteReview(r.Context(), titleID, reviewID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) reviewPath(r *http.Request) (titleID, reviewID uint, err error) {
	titleID, err = pathUint(r, "titleID")
	if err != nil {
		return 0, 0, err
	}
	reviewID, err = pathUint(r, "reviewID")
	if err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}
