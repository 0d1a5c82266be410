package http

import (
	"net/http"

	"critica/internal/authz"
	"critica/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth    service.AuthService
	users   *service.UserService
	catalog *service.CatalogService
	reviews *service.ReviewService

	defaultPageSize int
	maxPageSize     int
}

func NewHandler(auth service.AuthService, users *service.UserService, catalog *service.CatalogService, reviews *service.ReviewService, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{
		auth:            auth,
		users:           users,
		catalog:         catalog,
		reviews:         reviews,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// NewRouter mounts the versioned API plus the operational endpoints.
func NewRouter(h *Handler, authn *authz.Authenticator) chi.Router {
	r := chi.NewRouter()

	// Clients address these endpoints with and without trailing
	// slashes; treat both forms as the same route.
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authn.Middleware)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.signup)
			r.Post("/token", h.issueToken)
		})

		r.Route("/users", func(r chi.Router) {
			r.Route("/me", func(r chi.Router) {
				r.Use(authz.RequireUser)
				r.Get("/", h.me)
				r.Patch("/", h.updateMe)
			})
			r.Group(func(r chi.Router) {
				r.Use(authz.RequireAdmin)
				r.Get("/", h.listUsers)
				r.Post("/", h.createUser)
				r.Route("/{username}", func(r chi.Router) {
					r.Get("/", h.getUser)
					r.Patch("/", h.updateUser)
					r.Delete("/", h.deleteUser)
				})
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(authz.RequireAdminForWrites)
			r.Get("/", h.listCategories)
			r.Post("/", h.createCategory)
			r.Delete("/{slug}", h.deleteCategory)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Use(authz.RequireAdminForWrites)
			r.Get("/", h.listGenres)
			r.Post("/", h.createGenre)
			r.Delete("/{slug}", h.deleteGenre)
		})

		r.Route("/titles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authz.RequireAdminForWrites)
				r.Get("/", h.listTitles)
				r.Post("/", h.createTitle)
				r.Get("/{titleID}", h.getTitle)
				r.Put("/{titleID}", h.updateTitle)
				r.Patch("/{titleID}", h.patchTitle)
				r.Delete("/{titleID}", h.deleteTitle)
			})

			r.Route("/{titleID}/reviews", func(r chi.Router) {
				r.Get("/", h.listReviews)
				r.With(authz.RequireUser).Post("/", h.createReview)
				r.Get("/{reviewID}", h.getReview)
				r.With(authz.RequireUser).Put("/{reviewID}", h.updateReview)
				r.With(authz.RequireUser).Patch("/{reviewID}", h.updateReview)
				r.With(authz.RequireUser).Delete("/{reviewID}", h.deleteReview)

				r.Route("/{reviewID}/comments", func(r chi.Router) {
					r.Get("/", h.listComments)
					r.With(authz.RequireUser).Post("/", h.createComment)
					r.Get("/{commentID}", h.getComment)
					r.With(authz.RequireUser).Put("/{commentID}", h.updateComment)
					r.With(authz.RequireUser).Patch("/{commentID}", h.updateComment)
					r.With(authz.RequireUser).Delete("/{commentID}", h.deleteComment)
				})
			})
		})
	})

	return r
}
