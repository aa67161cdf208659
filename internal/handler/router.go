package handler

import (
	"net/http"

	"github.com/jonnronanmn/movies-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RouterConfig struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter arma todas las rutas. tokens valida los bearer tokens de las
// rutas protegidas.
func NewRouter(rc RouterConfig, tokens *service.TokenService, authH *AuthHandler, movieH *MovieHandler, feedH *FeedHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// el limite va antes de RealIP: se cuenta por la conexion real y no por
	// X-Forwarded-For, que cualquier cliente puede inventar
	r.Use(RateLimit(rc.RateLimitRPS, rc.RateLimitBurst))
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rc.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", Health)
	r.Post("/users/register", authH.Register)
	r.Post("/users/login", authH.Login)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := JWTAuth(tokens)

	r.With(authMw).Get("/users/details", authH.Details)

	r.Route("/movies", func(r chi.Router) {
		// WebSocket: el token puede venir por query
		r.With(QueryToken, authMw).Get("/ws/comments/{movieId}", feedH.CommentsWS)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/getMovies", movieH.GetMovies)
			r.Get("/getMovie/{movieId}", movieH.GetMovie)
			r.Patch("/addComment/{movieId}", movieH.AddComment)
			r.Get("/getComments/{movieId}", movieH.GetComments)

			// ---- solo ADMIN ----
			r.Group(func(r chi.Router) {
				r.Use(AdminOnly())
				r.Post("/addMovie", movieH.AddMovie)
				r.Patch("/updateMovie/{movieId}", movieH.UpdateMovie)
				r.Delete("/deleteMovie/{movieId}", movieH.DeleteMovie)
			})
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
