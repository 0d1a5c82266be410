package store

import (
	"context"

	"critica/internal/domain"
)

type CommentStore struct{ db *Store }

func (s *Store) Comments() *CommentStore { return &CommentStore{db: s} }

func (c *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	return translate(c.db.DB.WithContext(ctx).Omit("Author").Create(comment).Error)
}

func (c *CommentStore) GetByID(ctx context.Context, reviewID, commentID uint) (*domain.Comment, error) {
	var comment domain.Comment
	if err := c.db.DB.WithContext(ctx).
		Preload("Author").
		First(&comment, "id = ? AND review_id = ?", commentID, reviewID).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (c *CommentStore) ListByReview(ctx context.Context, reviewID uint, limit, offset int) ([]domain.Comment, int64, error) {
	q := c.db.DB.WithContext(ctx).Model(&domain.Comment{}).Where("review_id = ?", reviewID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var comments []domain.Comment
	if err := q.Preload("Author").
		Order("pub_date").
		Limit(limit).Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, 0, translate(err)
	}
	return comments, total, nil
}

func (c *CommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	return translate(c.db.DB.WithContext(ctx).Omit("Author").Save(comment).Error)
}

func (c *CommentStore) Delete(ctx context.Context, commentID uint) error {
	res := c.db.DB.WithContext(ctx).Where("id = ?", commentID).Delete(&domain.Comment{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
