package store

import (
	"context"

	"critica/internal/domain"
)

type GenreStore struct{ db *Store }

func (s *Store) Genres() *GenreStore { return &GenreStore{db: s} }

func (g *GenreStore) Create(ctx context.Context, genre *domain.Genre) error {
	return translate(g.db.DB.WithContext(ctx).Create(genre).Error)
}

func (g *GenreStore) GetBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	var genre domain.Genre
	if err := g.db.DB.WithContext(ctx).First(&genre, "slug = ?", slug).Error; err != nil {
		return nil, translate(err)
	}
	return &genre, nil
}

// GetBySlugs resolves a set of genre slugs, preserving no particular
// order. Missing slugs are reported by the caller comparing lengths.
func (g *GenreStore) GetBySlugs(ctx context.Context, slugs []string) ([]domain.Genre, error) {
	var genres []domain.Genre
	if err := g.db.DB.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, translate(err)
	}
	return genres, nil
}

func (g *GenreStore) List(ctx context.Context, search string, limit, offset int) ([]domain.Genre, int64, error) {
	q := g.db.DB.WithContext(ctx).Model(&domain.Genre{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var genres []domain.Genre
	if err := q.Order("slug").Limit(limit).Offset(offset).Find(&genres).Error; err != nil {
		return nil, 0, translate(err)
	}
	return genres, total, nil
}

// DeleteBySlug removes the genre and its title links; titles themselves
// are untouched.
func (g *GenreStore) DeleteBySlug(ctx context.Context, slug string) error {
	return g.db.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		var genre domain.Genre
		if err := db.First(&genre, "slug = ?", slug).Error; err != nil {
			return translate(err)
		}
		if err := db.Where("genre_id = ?", genre.ID).Delete(&domain.GenreTitle{}).Error; err != nil {
			return translate(err)
		}
		return translate(db.Delete(&genre).Error)
	})
}
