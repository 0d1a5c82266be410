package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/service"
	"critica/internal/store"
	"critica/pkg/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return store.New(gdb)
}

func seedUser(t *testing.T, st *store.Store, username string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@example.com", Role: role}
	if err := st.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedCatalog(t *testing.T, svc *service.CatalogService) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.CreateCategory(ctx, dto.CategoryRequest{Name: "Films", Slug: "films"}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := svc.CreateGenre(ctx, dto.GenreRequest{Name: "Drama", Slug: "drama"}); err != nil {
		t.Fatalf("seed genre: %v", err)
	}
	if _, err := svc.CreateGenre(ctx, dto.GenreRequest{Name: "Comedy", Slug: "comedy"}); err != nil {
		t.Fatalf("seed genre: %v", err)
	}
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	svc := service.NewCatalogService(setupStore(t))
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, dto.CategoryRequest{Name: "Films", Slug: "films"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreateCategory(ctx, dto.CategoryRequest{Name: "Movies", Slug: "films"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateTitleFutureYear(t *testing.T) {
	svc := service.NewCatalogService(setupStore(t))
	seedCatalog(t, svc)

	_, err := svc.CreateTitle(context.Background(), dto.TitleWriteRequest{
		Name:     "From the future",
		Year:     time.Now().Year() + 1,
		Genre:    []string{"drama"},
		Category: "films",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["year"]; !ok {
		t.Fatalf("expected year field error, got %v", verr.Fields)
	}
}

func TestCreateTitleUnknownGenre(t *testing.T) {
	svc := service.NewCatalogService(setupStore(t))
	seedCatalog(t, svc)

	_, err := svc.CreateTitle(context.Background(), dto.TitleWriteRequest{
		Name:     "Orphan",
		Year:     1990,
		Genre:    []string{"drama", "western"},
		Category: "films",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["genre"]; !ok {
		t.Fatalf("expected genre field error, got %v", verr.Fields)
	}
}

func TestListTitlesFilters(t *testing.T) {
	st := setupStore(t)
	svc := service.NewCatalogService(st)
	seedCatalog(t, svc)
	ctx := context.Background()

	mk := func(name string, year int, genres []string) {
		t.Helper()
		if _, err := svc.CreateTitle(ctx, dto.TitleWriteRequest{
			Name: name, Year: year, Genre: genres, Category: "films",
		}); err != nil {
			t.Fatalf("create title %s: %v", name, err)
		}
	}
	mk("Alpha", 1990, []string{"drama"})
	mk("Beta", 1990, []string{"comedy"})
	mk("Gamma", 2001, []string{"drama", "comedy"})

	cases := []struct {
		name   string
		filter store.TitleFilter
		want   int
	}{
		{"by genre", store.TitleFilter{GenreSlug: "drama"}, 2},
		{"by category", store.TitleFilter{CategorySlug: "films"}, 3},
		{"by name substring", store.TitleFilter{Name: "amm"}, 1},
		{"by year", store.TitleFilter{Year: intPtr(1990)}, 2},
		{"combined", store.TitleFilter{GenreSlug: "comedy", Year: intPtr(2001)}, 1},
		{"no match", store.TitleFilter{GenreSlug: "drama", Year: intPtr(1800)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			titles, _, total, err := svc.ListTitles(ctx, tc.filter, 10, 0)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(titles) != tc.want || total != int64(tc.want) {
				t.Fatalf("expected %d titles, got %d (total %d)", tc.want, len(titles), total)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestListTitlesReturnsFullRows(t *testing.T) {
	svc := service.NewCatalogService(setupStore(t))
	seedCatalog(t, svc)
	ctx := context.Background()

	if _, err := svc.CreateTitle(ctx, dto.TitleWriteRequest{
		Name: "Complete", Year: 1994, Description: "all fields set",
		Genre: []string{"drama"}, Category: "films",
	}); err != nil {
		t.Fatalf("create title: %v", err)
	}

	// Listing must hydrate every column, not just the id.
	titles, _, _, err := svc.ListTitles(ctx, store.TitleFilter{GenreSlug: "drama"}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(titles) != 1 {
		t.Fatalf("expected 1 title, got %d", len(titles))
	}
	got := titles[0]
	if got.Name != "Complete" || got.Year != 1994 || got.Description != "all fields set" {
		t.Fatalf("scalar fields not hydrated: %+v", got)
	}
	if got.Category == nil || got.Category.Slug != "films" {
		t.Fatalf("category not hydrated: %+v", got.Category)
	}
	if len(got.Genres) != 1 || got.Genres[0].Slug != "drama" {
		t.Fatalf("genres not hydrated: %+v", got.Genres)
	}
}

func TestTitleRating(t *testing.T) {
	st := setupStore(t)
	catalog := service.NewCatalogService(st)
	reviews := service.NewReviewService(st)
	seedCatalog(t, catalog)
	ctx := context.Background()

	title, err := catalog.CreateTitle(ctx, dto.TitleWriteRequest{
		Name: "Rated", Year: 1990, Genre: []string{"drama"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	// No reviews: rating is absent.
	_, rating, err := catalog.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if rating != nil {
		t.Fatalf("expected nil rating, got %v", *rating)
	}

	alice := seedUser(t, st, "alice", domain.RoleUser)
	bob := seedUser(t, st, "bob", domain.RoleUser)
	if _, err := reviews.CreateReview(ctx, alice, title.ID, dto.ReviewWriteRequest{Text: "ok", Score: 4}); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := reviews.CreateReview(ctx, bob, title.ID, dto.ReviewWriteRequest{Text: "great", Score: 9}); err != nil {
		t.Fatalf("review: %v", err)
	}

	_, rating, err = catalog.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if rating == nil || *rating != 6.5 {
		t.Fatalf("expected rating 6.5, got %v", rating)
	}
}

func TestDeleteTitleCascades(t *testing.T) {
	st := setupStore(t)
	catalog := service.NewCatalogService(st)
	reviews := service.NewReviewService(st)
	seedCatalog(t, catalog)
	ctx := context.Background()

	title, err := catalog.CreateTitle(ctx, dto.TitleWriteRequest{
		Name: "Doomed", Year: 1990, Genre: []string{"drama"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}
	alice := seedUser(t, st, "alice", domain.RoleUser)
	review, err := reviews.CreateReview(ctx, alice, title.ID, dto.ReviewWriteRequest{Text: "ok", Score: 5})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := reviews.CreateComment(ctx, alice, title.ID, review.ID, dto.CommentWriteRequest{Text: "same"}); err != nil {
		t.Fatalf("comment: %v", err)
	}

	if err := catalog.DeleteTitle(ctx, title.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var reviewCount, commentCount int64
	if err := st.DB.Model(&domain.Review{}).Count(&reviewCount).Error; err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if err := st.DB.Model(&domain.Comment{}).Count(&commentCount).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if reviewCount != 0 || commentCount != 0 {
		t.Fatalf("expected cascade, got %d reviews and %d comments", reviewCount, commentCount)
	}
}

func TestDeleteCategoryNullsTitleReference(t *testing.T) {
	st := setupStore(t)
	svc := service.NewCatalogService(st)
	seedCatalog(t, svc)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, dto.TitleWriteRequest{
		Name: "Survivor", Year: 1990, Genre: []string{"drama"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	if err := svc.DeleteCategory(ctx, "films"); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, _, err := svc.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("title should survive category deletion: %v", err)
	}
	if got.Category != nil || got.CategoryID != nil {
		t.Fatalf("expected nulled category, got %+v", got.Category)
	}
}

func TestDeleteGenreRemovesLinks(t *testing.T) {
	st := setupStore(t)
	svc := service.NewCatalogService(st)
	seedCatalog(t, svc)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, dto.TitleWriteRequest{
		Name: "Linked", Year: 1990, Genre: []string{"drama", "comedy"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	if err := svc.DeleteGenre(ctx, "drama"); err != nil {
		t.Fatalf("delete genre: %v", err)
	}

	got, _, err := svc.GetTitle(ctx, title.ID)
	if err != nil {
		t.Fatalf("get title: %v", err)
	}
	if len(got.Genres) != 1 || got.Genres[0].Slug != "comedy" {
		t.Fatalf("expected only comedy left, got %+v", got.Genres)
	}
}

func TestPatchTitlePartial(t *testing.T) {
	svc := service.NewCatalogService(setupStore(t))
	seedCatalog(t, svc)
	ctx := context.Background()

	title, err := svc.CreateTitle(ctx, dto.TitleWriteRequest{
		Name: "Original", Year: 1990, Description: "desc", Genre: []string{"drama"}, Category: "films",
	})
	if err != nil {
		t.Fatalf("create title: %v", err)
	}

	name := "Renamed"
	patched, err := svc.PatchTitle(ctx, title.ID, dto.TitlePatchRequest{Name: &name})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched.Name != "Renamed" || patched.Year != 1990 || patched.Description != "desc" {
		t.Fatalf("unexpected patch result: %+v", patched)
	}
	if len(patched.Genres) != 1 {
		t.Fatalf("genres should be untouched, got %+v", patched.Genres)
	}
}
