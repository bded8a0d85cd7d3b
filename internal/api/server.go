package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/kitcatalog/internal/api/handler"
	mw "github.com/edvin/kitcatalog/internal/api/middleware"
	"github.com/edvin/kitcatalog/internal/core"
	"github.com/edvin/kitcatalog/internal/model"
	"github.com/edvin/kitcatalog/internal/storage"
	"github.com/edvin/kitcatalog/internal/web"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router      chi.Router
	logger      zerolog.Logger
	services    *core.Services
	manuals     storage.ManualStore
	web         *web.Handler
	corsOrigins []string
	checks      map[string]Pinger
}

// NewServer builds the HTTP surface: the JSON API, the results endpoint, the
// admin pages and the operational endpoints. checks are pinged by /readyz.
func NewServer(logger zerolog.Logger, services *core.Services, manuals storage.ManualStore, pages *web.Handler, corsOrigins []string, checks map[string]Pinger) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		services:    services,
		manuals:     manuals,
		web:         pages,
		corsOrigins: corsOrigins,
		checks:      checks,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.CORS(s.corsOrigins))

		results := handler.NewResult(s.services.Result)
		r.Get("/results", results.List)

		r.Route("/v1", func(r chi.Router) {
			auth := handler.NewAuth(s.services.Auth, s.services.User)
			r.Post("/auth/signin", auth.SignIn)
			r.Post("/auth/signup", auth.SignUp)

			r.Group(func(r chi.Router) {
				r.Use(mw.Auth(s.services.Auth))

				r.Get("/me", auth.Me)

				product := handler.NewProduct(s.services.Product)
				r.Get("/products", product.List)
				r.Get("/products/{id}", product.Get)

				r.Group(func(r chi.Router) {
					r.Use(mw.RequireRole(model.RoleAdmin))

					r.Post("/products", product.Create)
					r.Put("/products/{id}", product.Update)
					r.Delete("/products/{id}", product.Delete)

					manual := handler.NewManual(s.services.Product, s.manuals)
					r.Put("/products/{id}/manual", manual.Upload)

					importer := handler.NewImport(s.services.Import)
					r.Post("/products/import", importer.Upload)
				})
			})
		})
	})

	if s.web != nil {
		s.web.Routes(s.router)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var mu sync.Mutex
	checks := make(map[string]string, len(s.checks))
	healthy := true

	var g errgroup.Group
	for name, p := range s.checks {
		g.Go(func() error {
			status := "ok"
			if err := p.Ping(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			checks[name] = status
			if status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	g.Wait()

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
