package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/middleware"
	"github.com/Lixing-Zhang/catalog-manager/internal/models"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig holds everything the HTTP surface is built from
type RouterConfig struct {
	Products       ResourceService[models.Product, models.ProductInput]
	Categories     ResourceService[models.Category, models.CategoryInput]
	Store          StorePinger
	StoreBackend   string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Development    bool // expose error details in 500 responses
	Logger         *slog.Logger
}

// NewRouter builds the API router
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger

	detail := ProductionDetail
	if cfg.Development {
		detail = DevelopmentDetail
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recoverer(log, PanicResponder(detail, log)))
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	notFound := NotFound(log)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/", Index(log))
	r.Get("/health", NewHealthHandler(cfg.Store, cfg.StoreBackend, log).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		NewResourceHandler(cfg.Products, detail, log).Routes(r)
		NewResourceHandler(cfg.Categories, detail, log).Routes(r)
	})

	return r
}
