package store

import (
	"context"

	"critica/internal/domain"
)

type CategoryStore struct{ db *Store }

func (s *Store) Categories() *CategoryStore { return &CategoryStore{db: s} }

func (c *CategoryStore) Create(ctx context.Context, cat *domain.Category) error {
	return translate(c.db.DB.WithContext(ctx).Create(cat).Error)
}

func (c *CategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var cat domain.Category
	if err := c.db.DB.WithContext(ctx).First(&cat, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

func (c *CategoryStore) List(ctx context.Context, search string, limit, offset int) ([]domain.Category, int64, error) {
	q := c.db.DB.WithContext(ctx).Model(&domain.Category{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var cats []domain.Category
	if err := q.Order("slug").Limit(limit).Offset(offset).Find(&cats).Error; err != nil {
		return nil, 0, translate(err)
	}
	return cats, total, nil
}

// DeleteBySlug removes the category; titles that referenced it keep
// existing with a null category.
func (c *CategoryStore) DeleteBySlug(ctx context.Context, slug string) error {
	return c.db.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		var cat domain.Category
		if err := db.First(&cat, "slug = ?", slug).Error; err != nil {
			return translate(err)
		}
		if err := db.Model(&domain.Title{}).
			Where("category_id = ?", cat.ID).
			Update("category_id", nil).Error; err != nil {
			return translate(err)
		}
		return translate(db.Delete(&cat).Error)
	})
}
