package service

import (
	"context"
	"errors"
	"time"

	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/store"
)

// ReviewService owns reviews and their comments. Every operation is
// scoped to the parent title (and review, for comments): a child id
// under the wrong parent is a 404.
type ReviewService struct {
	store *store.Store
}

func NewReviewService(st *store.Store) *ReviewService {
	return &ReviewService{store: st}
}

func (s *ReviewService) requireTitle(ctx context.Context, titleID uint) error {
	if _, err := s.store.Titles().GetByID(ctx, titleID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID uint, limit, offset int) ([]domain.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.store.Reviews().ListByTitle(ctx, titleID, limit, offset)
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID uint) (*domain.Review, error) {
	review, err := s.store.Reviews().GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

// CreateReview stamps the author from the authenticated identity and the
// title from the URL; neither is client-supplied.
func (s *ReviewService) CreateReview(ctx context.Context, author *domain.User, titleID uint, req dto.ReviewWriteRequest) (*domain.Review, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		TitleID:  titleID,
		AuthorID: author.ID,
		Author:   author,
		Text:     req.Text,
		Score:    req.Score,
		PubDate:  time.Now().UTC(),
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		exists, err := tx.Reviews().ExistsByAuthorTitle(ctx, author.ID, titleID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateReview
		}
		return tx.Reviews().Create(ctx, review)
	})
	if err != nil {
		// The unique index closes the race the pre-check leaves open.
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, domain.ErrDuplicateReview
		}
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, titleID, reviewID uint, req dto.ReviewWriteRequest) (*domain.Review, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	review.Text = req.Text
	review.Score = req.Score
	if err := s.store.Reviews().Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, titleID, reviewID uint) error {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.store.Reviews().Delete(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ---- Comments ----

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID uint, limit, offset int) ([]domain.Comment, int64, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.store.Comments().ListByReview(ctx, reviewID, limit, offset)
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID uint) (*domain.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.store.Comments().GetByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, author *domain.User, titleID, reviewID uint, req dto.CommentWriteRequest) (*domain.Comment, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ReviewID: reviewID,
		AuthorID: author.ID,
		Author:   author,
		Text:     req.Text,
		PubDate:  time.Now().UTC(),
	}
	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, titleID, reviewID, commentID uint, req dto.CommentWriteRequest) (*domain.Comment, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	comment.Text = req.Text
	if err := s.store.Comments().Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, titleID, reviewID, commentID uint) error {
	if _, err := s.GetComment(ctx, titleID, reviewID, commentID); err != nil {
		return err
	}
	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
