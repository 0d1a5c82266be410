package store

import (
	"context"

	"critica/internal/domain"
)

type ReviewStore struct{ db *Store }

func (s *Store) Reviews() *ReviewStore { return &ReviewStore{db: s} }

func (r *ReviewStore) Create(ctx context.Context, review *domain.Review) error {
	return translate(r.db.DB.WithContext(ctx).Omit("Author").Create(review).Error)
}

// GetByID fetches a review scoped to its parent title; a review id that
// exists under a different title is treated as not found.
func (r *ReviewStore) GetByID(ctx context.Context, titleID, reviewID uint) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.DB.WithContext(ctx).
		Preload("Author").
		First(&review, "id = ? AND title_id = ?", reviewID, titleID).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *ReviewStore) ListByTitle(ctx context.Context, titleID uint, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.DB.WithContext(ctx).Model(&domain.Review{}).Where("title_id = ?", titleID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var reviews []domain.Review
	if err := q.Preload("Author").
		Order("pub_date").
		Limit(limit).Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, 0, translate(err)
	}
	return reviews, total, nil
}

func (r *ReviewStore) ExistsByAuthorTitle(ctx context.Context, authorID domain.UserID, titleID uint) (bool, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).
		Model(&domain.Review{}).
		Where("author_id = ? AND title_id = ?", authorID, titleID).
		Count(&count).Error; err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *ReviewStore) Update(ctx context.Context, review *domain.Review) error {
	return translate(r.db.DB.WithContext(ctx).Omit("Author").Save(review).Error)
}

// Delete removes the review and its comments in one transaction.
func (r *ReviewStore) Delete(ctx context.Context, reviewID uint) error {
	return r.db.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)
		if err := db.Where("review_id = ?", reviewID).Delete(&domain.Comment{}).Error; err != nil {
			return translate(err)
		}
		res := db.Where("id = ?", reviewID).Delete(&domain.Review{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}
