package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/store"
)

// CatalogService owns categories, genres and titles.
type CatalogService struct {
	store *store.Store
}

func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{store: st}
}

// ---- Categories ----

func (s *CatalogService) ListCategories(ctx context.Context, search string, limit, offset int) ([]domain.Category, int64, error) {
	return s.store.Categories().List(ctx, search, limit, offset)
}

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*domain.Category, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if _, err := s.store.Categories().GetBySlug(ctx, req.Slug); err == nil {
		return nil, domain.NewValidationError("slug", "a category with that slug already exists")
	}
	cat := &domain.Category{Name: req.Name, Slug: req.Slug}
	if err := s.store.Categories().Create(ctx, cat); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, domain.NewValidationError("slug", "a category with that slug already exists")
		}
		return nil, err
	}
	return cat, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.store.Categories().DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ---- Genres ----

func (s *CatalogService) ListGenres(ctx context.Context, search string, limit, offset int) ([]domain.Genre, int64, error) {
	return s.store.Genres().List(ctx, search, limit, offset)
}

func (s *CatalogService) CreateGenre(ctx context.Context, req dto.GenreRequest) (*domain.Genre, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if _, err := s.store.Genres().GetBySlug(ctx, req.Slug); err == nil {
		return nil, domain.NewValidationError("slug", "a genre with that slug already exists")
	}
	genre := &domain.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.store.Genres().Create(ctx, genre); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, domain.NewValidationError("slug", "a genre with that slug already exists")
		}
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.store.Genres().DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ---- Titles ----

func (s *CatalogService) ListTitles(ctx context.Context, f store.TitleFilter, limit, offset int) ([]domain.Title, map[uint]float64, int64, error) {
	titles, total, err := s.store.Titles().List(ctx, f, limit, offset)
	if err != nil {
		return nil, nil, 0, err
	}
	ids := make([]uint, 0, len(titles))
	for i := range titles {
		ids = append(ids, titles[i].ID)
	}
	ratings, err := s.store.Titles().Ratings(ctx, ids)
	if err != nil {
		return nil, nil, 0, err
	}
	return titles, ratings, total, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id uint) (*domain.Title, *float64, error) {
	title, err := s.store.Titles().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	ratings, err := s.store.Titles().Ratings(ctx, []uint{id})
	if err != nil {
		return nil, nil, err
	}
	var rating *float64
	if v, ok := ratings[id]; ok {
		rating = &v
	}
	return title, rating, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, req dto.TitleWriteRequest) (*domain.Title, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if verr := validateYear(req.Year); verr != nil {
		return nil, verr
	}

	category, genres, verr := s.resolveRefs(ctx, req.Category, req.Genre)
	if verr != nil {
		return nil, verr
	}

	title := &domain.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
		Category:    category,
		Genres:      genres,
	}
	if err := s.store.Titles().Create(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id uint, req dto.TitleWriteRequest) (*domain.Title, error) {
	patch := dto.TitlePatchRequest{
		Name:        &req.Name,
		Year:        &req.Year,
		Description: &req.Description,
		Genre:       req.Genre,
		Category:    &req.Category,
	}
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	return s.PatchTitle(ctx, id, patch)
}

func (s *CatalogService) PatchTitle(ctx context.Context, id uint, req dto.TitlePatchRequest) (*domain.Title, error) {
	if verr := dto.Check(req); verr != nil {
		return nil, verr
	}
	if req.Year != nil {
		if verr := validateYear(*req.Year); verr != nil {
			return nil, verr
		}
	}

	title, err := s.store.Titles().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var categorySlug string
	if req.Category != nil {
		categorySlug = *req.Category
	}
	category, genres, verr := s.resolveRefs(ctx, categorySlug, req.Genre)
	if verr != nil {
		return nil, verr
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if category != nil {
		title.CategoryID = &category.ID
		title.Category = category
	}
	if err := s.store.Titles().Update(ctx, title, genres); err != nil {
		return nil, err
	}
	if genres != nil {
		title.Genres = genres
	}
	return title, nil
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id uint) error {
	if err := s.store.Titles().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// resolveRefs turns slug references into persisted rows. Empty slug and
// nil slice mean "not supplied". Unknown slugs come back as field errors
// rather than 404s: the missing object is part of the request body, not
// the URL.
func (s *CatalogService) resolveRefs(ctx context.Context, categorySlug string, genreSlugs []string) (*domain.Category, []domain.Genre, error) {
	var category *domain.Category
	if categorySlug != "" {
		var err error
		category, err = s.store.Categories().GetBySlug(ctx, categorySlug)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, nil, domain.NewValidationError("category", fmt.Sprintf("category with slug %q does not exist", categorySlug))
			}
			return nil, nil, err
		}
	}

	var genres []domain.Genre
	if genreSlugs != nil {
		found, err := s.store.Genres().GetBySlugs(ctx, genreSlugs)
		if err != nil {
			return nil, nil, err
		}
		bySlug := make(map[string]domain.Genre, len(found))
		for _, g := range found {
			bySlug[g.Slug] = g
		}
		genres = make([]domain.Genre, 0, len(genreSlugs))
		for _, slug := range genreSlugs {
			g, ok := bySlug[slug]
			if !ok {
				return nil, nil, domain.NewValidationError("genre", fmt.Sprintf("genre with slug %q does not exist", slug))
			}
			genres = append(genres, g)
		}
	}
	return category, genres, nil
}

func validateYear(year int) *domain.ValidationError {
	if year > time.Now().Year() {
		return domain.NewValidationError("year", "titles from the future cannot be added")
	}
	return nil
}
