// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"moviemate/internal/api"
	"moviemate/internal/catalog"
	"moviemate/internal/config"
	"moviemate/internal/db"
	"moviemate/internal/library"
	"moviemate/internal/logger"
	"moviemate/internal/middleware"
	"moviemate/internal/party"
	"moviemate/internal/recommend"
	"moviemate/internal/review"
)

// Server represents the HTTP server
type Server struct {
	config         *config.Config
	db             *db.DB
	repos          *db.Repositories
	catalogClient  *catalog.Client
	reviews        *review.Generator
	libraryService *library.Service
	partyService   *party.Service
	engine         *recommend.Engine
	router         *gin.Engine
	server         *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) *Server {
	repos := db.NewRepositories(database)
	catalogClient := catalog.NewClient(cfg.Catalog)
	reviews := review.NewGenerator(review.NewClient(cfg.Review))
	libraryService := library.NewService(repos, catalogClient, reviews)
	partyService := party.NewService(repos)
	engine := recommend.NewEngine(catalogClient)

	return &Server{
		config:         cfg,
		db:             database,
		repos:          repos,
		catalogClient:  catalogClient,
		reviews:        reviews,
		libraryService: libraryService,
		partyService:   partyService,
		engine:         engine,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupMediaRoutes(apiGroup, s.libraryService, s.reviews)
	api.SetupCatalogRoutes(apiGroup, s.catalogClient, s.repos)
	api.SetupRecommendRoutes(apiGroup, s.libraryService, s.engine)
	api.SetupPartyRoutes(apiGroup, s.partyService)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
