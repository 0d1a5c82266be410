package dto

import "critica/internal/domain"

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=250"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{Name: c.Name, Slug: c.Slug}
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=250"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewGenreResponse(g *domain.Genre) GenreResponse {
	return GenreResponse{Name: g.Name, Slug: g.Slug}
}

// TitleWriteRequest is the write shape: genre and category arrive as
// slug references, never embedded objects.
type TitleWriteRequest struct {
	Name        string   `json:"name" validate:"required,max=250"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=400"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,slug"`
	Category    string   `json:"category" validate:"required,slug"`
}

// TitlePatchRequest is the partial write shape; nil leaves a field
// unchanged, and a non-nil Genre replaces the whole set.
type TitlePatchRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=250"`
	Year        *int     `json:"year"`
	Description *string  `json:"description" validate:"omitempty,max=400"`
	Genre       []string `json:"genre" validate:"omitempty,min=1,dive,slug"`
	Category    *string  `json:"category" validate:"omitempty,slug"`
}

// TitleResponse is the read shape: embedded category/genre objects plus
// the derived rating, null when the title has no reviews.
type TitleResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

func NewTitleResponse(t *domain.Title, rating *float64) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for i := range t.Genres {
		resp.Genre = append(resp.Genre, NewGenreResponse(&t.Genres[i]))
	}
	if t.Category != nil {
		c := NewCategoryResponse(t.Category)
		resp.Category = &c
	}
	return resp
}
