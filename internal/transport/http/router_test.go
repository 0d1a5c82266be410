package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"critica/internal/authz"
	"critica/internal/domain"
	"critica/internal/dto"
	"critica/internal/service"
	"critica/internal/service/impl"
	"critica/internal/store"
	api "critica/internal/transport/http"
	"critica/pkg/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	st     *store.Store
	tokens service.TokenService
	router http.Handler
}

type discardSender struct{}

func (discardSender) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	return nil
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	st := store.New(gdb)
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     "critica-test",
		Audience:   "critica",
		AccessTTL:  time.Hour,
		SigningKey: []byte("router-test-secret"),
	})
	auth := impl.NewAuthServiceImpl(st, impl.NewCodeHasher(), tokens, discardSender{})
	h := api.NewHandler(auth, service.NewUserService(st), service.NewCatalogService(st), service.NewReviewService(st), 10, 100)
	return &testEnv{
		st:     st,
		tokens: tokens,
		router: api.NewRouter(h, authz.NewAuthenticator(tokens, st)),
	}
}

func (e *testEnv) user(t *testing.T, username string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, e.st.Users().Create(context.Background(), u))
	return u
}

func (e *testEnv) token(t *testing.T, u *domain.User) string {
	t.Helper()
	tok, err := e.tokens.Issue(context.Background(), u)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func (e *testEnv) seedCatalog(t *testing.T, adminToken string) {
	t.Helper()
	for _, body := range []map[string]string{
		{"name": "Films", "slug": "films"},
	} {
		rec := e.do(t, http.MethodPost, "/api/v1/categories/", adminToken, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := e.do(t, http.MethodPost, "/api/v1/genres/", adminToken, map[string]string{"name": "Drama", "slug": "drama"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (e *testEnv) seedTitle(t *testing.T, adminToken, name string) uint {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/titles/", adminToken, map[string]any{
		"name": name, "year": 1990, "genre": []string{"drama"}, "category": "films",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var title dto.TitleResponse
	decodeBody(t, rec, &title)
	return title.ID
}

func TestSlashVariantsResolve(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/api/v1/genres", "/api/v1/genres/"} {
		rec := e.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "plainpath", "email": "plainpath@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSignupEchoesRequest(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/signup/", "", map[string]string{
		"username": "newbie", "email": "newbie@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.SignupResponse
	decodeBody(t, rec, &resp)
	require.Equal(t, "newbie", resp.Username)
	require.Equal(t, "newbie@example.com", resp.Email)
}

func TestSignupReservedUsername(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/signup/", "", map[string]string{
		"username": "me", "email": "me@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	decodeBody(t, rec, &fields)
	require.Contains(t, fields, "username")
}

func TestTokenWrongCode(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/signup/", "", map[string]string{
		"username": "pending", "email": "pending@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"username": "pending", "confirmation_code": "not-the-code",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	decodeBody(t, rec, &fields)
	require.Contains(t, fields, "confirmation_code")
}

func TestTokenUnknownUsername(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/v1/auth/token/", "", map[string]string{
		"username": "nobody", "confirmation_code": "whatever",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryWriteRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	regular := e.user(t, "regular", domain.RoleUser)

	body := map[string]string{"name": "Films", "slug": "films"}

	rec := e.do(t, http.MethodPost, "/api/v1/categories/", "", body)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/v1/categories/", e.token(t, regular), body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Reads stay open.
	rec = e.do(t, http.MethodGet, "/api/v1/categories/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestTitleListShape(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", domain.RoleAdmin)
	adminToken := e.token(t, admin)
	e.seedCatalog(t, adminToken)
	titleID := e.seedTitle(t, adminToken, "Shaped")

	reviewer := e.user(t, "reviewer", domain.RoleUser)
	rec := e.do(t, http.MethodPost, "/api/v1/titles/"+itoa(titleID)+"/reviews/", e.token(t, reviewer), map[string]any{
		"text": "solid", "score": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/v1/titles/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Count    int64               `json:"count"`
		Next     *string             `json:"next"`
		Previous *string             `json:"previous"`
		Results  []dto.TitleResponse `json:"results"`
	}
	decodeBody(t, rec, &page)
	require.Equal(t, int64(1), page.Count)
	require.Nil(t, page.Next)
	require.Len(t, page.Results, 1)

	got := page.Results[0]
	require.Equal(t, "Shaped", got.Name)
	require.NotNil(t, got.Rating)
	require.Equal(t, 8.0, *got.Rating)
	require.NotNil(t, got.Category)
	require.Equal(t, "films", got.Category.Slug)
	require.Len(t, got.Genre, 1)
}

func TestReviewPermissions(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", domain.RoleAdmin)
	adminToken := e.token(t, admin)
	e.seedCatalog(t, adminToken)
	titleID := e.seedTitle(t, adminToken, "Contested")

	author := e.user(t, "author", domain.RoleUser)
	stranger := e.user(t, "stranger", domain.RoleUser)
	moderator := e.user(t, "mod", domain.RoleModerator)

	base := "/api/v1/titles/" + itoa(titleID) + "/reviews/"
	rec := e.do(t, http.MethodPost, base, e.token(t, author), map[string]any{"text": "mine", "score": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var review dto.ReviewResponse
	decodeBody(t, rec, &review)

	reviewPath := base + itoa(review.ID)
	patch := map[string]any{"text": "edited", "score": 6}

	rec = e.do(t, http.MethodPatch, reviewPath, "", patch)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPatch, reviewPath, e.token(t, stranger), patch)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPatch, reviewPath, e.token(t, author), patch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Anyone may read.
	rec = e.do(t, http.MethodGet, reviewPath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Moderators may remove content they did not write.
	rec = e.do(t, http.MethodDelete, reviewPath, e.token(t, moderator), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDuplicateReviewRejected(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", domain.RoleAdmin)
	adminToken := e.token(t, admin)
	e.seedCatalog(t, adminToken)
	titleID := e.seedTitle(t, adminToken, "OnceOnly")

	author := e.user(t, "author", domain.RoleUser)
	base := "/api/v1/titles/" + itoa(titleID) + "/reviews/"

	rec := e.do(t, http.MethodPost, base, e.token(t, author), map[string]any{"text": "one", "score": 5})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, base, e.token(t, author), map[string]any{"text": "two", "score": 6})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	decodeBody(t, rec, &fields)
	require.Contains(t, fields, "non_field_errors")
}

func TestMeEndpoint(t *testing.T) {
	e := newEnv(t)
	carol := e.user(t, "carol", domain.RoleUser)
	token := e.token(t, carol)

	rec := e.do(t, http.MethodGet, "/api/v1/users/me/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/v1/users/me/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me dto.UserResponse
	decodeBody(t, rec, &me)
	require.Equal(t, "carol", me.Username)

	// Self-service updates may not touch the role.
	rec = e.do(t, http.MethodPatch, "/api/v1/users/me/", token, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/v1/users/me/", token, map[string]string{"bio": "hello"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &me)
	require.Equal(t, "hello", me.Bio)
	require.Equal(t, "user", me.Role)
}

func TestUserAdminRoutes(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", domain.RoleAdmin)
	regular := e.user(t, "plain", domain.RoleUser)

	rec := e.do(t, http.MethodGet, "/api/v1/users/", e.token(t, regular), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := e.token(t, admin)
	rec = e.do(t, http.MethodPost, "/api/v1/users/", adminToken, map[string]string{
		"username": "made", "email": "made@example.com", "role": "moderator",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/v1/users/made/", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var made dto.UserResponse
	decodeBody(t, rec, &made)
	require.Equal(t, "moderator", made.Role)

	rec = e.do(t, http.MethodDelete, "/api/v1/users/made/", adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/v1/users/made/", adminToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBadTitleIDIsNotFound(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/v1/titles/notanumber", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func itoa(v uint) string { return strconv.FormatUint(uint64(v), 10) }
