package store

import (
	"context"

	"critica/internal/domain"

	"gorm.io/gorm"
)

type TitleStore struct{ db *Store }

func (s *Store) Titles() *TitleStore { return &TitleStore{db: s} }

// TitleFilter narrows a title listing. Zero values mean "no filter";
// Year uses a pointer so year 0 stays expressible.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

func (t *TitleStore) Create(ctx context.Context, title *domain.Title) error {
	return translate(t.db.DB.WithContext(ctx).Create(title).Error)
}

func (t *TitleStore) GetByID(ctx context.Context, id uint) (*domain.Title, error) {
	var title domain.Title
	if err := t.db.DB.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, "titles.id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &title, nil
}

func (t *TitleStore) List(ctx context.Context, f TitleFilter, limit, offset int) ([]domain.Title, int64, error) {
	q := t.db.DB.WithContext(ctx).Model(&domain.Title{})
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Joins("JOIN genre_titles ON genre_titles.title_id = titles.id").
			Joins("JOIN genres ON genres.id = genre_titles.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("titles.name LIKE ?", "%"+f.Name+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}

	// Count on a cloned statement; chaining Distinct onto q directly
	// would leave its select clause stuck on titles.id for the Find.
	var total int64
	if err := q.Session(&gorm.Session{}).Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	var titles []domain.Title
	if err := q.Distinct("titles.*").
		Preload("Category").
		Preload("Genres").
		Order("titles.id").
		Limit(limit).Offset(offset).
		Find(&titles).Error; err != nil {
		return nil, 0, translate(err)
	}
	return titles, total, nil
}

// Update saves the scalar fields and replaces the genre associations
// with the given set.
func (t *TitleStore) Update(ctx context.Context, title *domain.Title, genres []domain.Genre) error {
	return t.db.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)
		if err := db.Omit("Genres", "Category").Save(title).Error; err != nil {
			return translate(err)
		}
		if genres == nil {
			return nil
		}
		if err := db.Where("title_id = ?", title.ID).Delete(&domain.GenreTitle{}).Error; err != nil {
			return translate(err)
		}
		links := make([]domain.GenreTitle, 0, len(genres))
		for _, g := range genres {
			links = append(links, domain.GenreTitle{TitleID: title.ID, GenreID: g.ID})
		}
		if len(links) == 0 {
			return nil
		}
		return translate(db.Create(&links).Error)
	})
}

// Delete removes the title and cascades through its reviews and their
// comments inside one transaction, mirroring the FK constraints that
// back it in postgres.
func (t *TitleStore) Delete(ctx context.Context, id uint) error {
	return t.db.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		var reviewIDs []uint
		if err := db.Model(&domain.Review{}).
			Where("title_id = ?", id).
			Pluck("id", &reviewIDs).Error; err != nil {
			return translate(err)
		}
		if len(reviewIDs) > 0 {
			if err := db.Where("review_id IN ?", reviewIDs).Delete(&domain.Comment{}).Error; err != nil {
				return translate(err)
			}
			if err := db.Where("id IN ?", reviewIDs).Delete(&domain.Review{}).Error; err != nil {
				return translate(err)
			}
		}
		if err := db.Where("title_id = ?", id).Delete(&domain.GenreTitle{}).Error; err != nil {
			return translate(err)
		}

		res := db.Where("id = ?", id).Delete(&domain.Title{})
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// Ratings returns the average review score per title for the given ids.
// Titles without reviews are absent from the map.
func (t *TitleStore) Ratings(ctx context.Context, ids []uint) (map[uint]float64, error) {
	if len(ids) == 0 {
		return map[uint]float64{}, nil
	}
	var rows []struct {
		TitleID uint
		Rating  float64
	}
	if err := t.db.DB.WithContext(ctx).
		Model(&domain.Review{}).
		Select("title_id, AVG(score) AS rating").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make(map[uint]float64, len(rows))
	for _, row := range rows {
		out[row.TitleID] = row.Rating
	}
	return out, nil
}
