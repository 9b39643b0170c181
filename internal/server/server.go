// Package server is the composition root: it wires the database, cache,
// media store, services, and handlers together and owns the route table
// and the server lifecycle. main.go stays minimal; everything that
// decides how the application fits together lives here.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/microblog/internal/auth"
	"github.com/sakif/microblog/internal/cache"
	"github.com/sakif/microblog/internal/config"
	"github.com/sakif/microblog/internal/handler"
	"github.com/sakif/microblog/internal/mediastore"
	"github.com/sakif/microblog/internal/middleware"
	sqliteRepo "github.com/sakif/microblog/internal/repository/sqlite"
	"github.com/sakif/microblog/internal/service"
)

// Server owns the router and every resource that must be released on
// shutdown.
type Server struct {
	router    *chi.Mux
	config    *config.Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	feedCache cache.FeedCache
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer receives only what it needs: services get repository
// interfaces, handlers get services, routes get handlers. The feed cache
// is Redis when RedisAddr is configured, otherwise a no-op.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var feedCache cache.FeedCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisCache, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		feedCache = redisCache
		logger.Info("feed cache enabled", slog.String("redis", cfg.RedisAddr))
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		db:        db,
		feedCache: feedCache,
	}

	if err := s.setupRoutes(); err != nil {
		s.closeResources()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	media, err := mediastore.New(s.config.MediaDir)
	if err != nil {
		return fmt.Errorf("creating media store: %w", err)
	}

	postService := service.NewPostService(s.db, s.db, s.db, s.db, s.db, s.feedCache, s.logger)
	followService := service.NewFollowService(s.db, s.db, s.logger)
	authService := service.NewAuthService(s.db, auth.NewPasswordService(), s.logger)

	feedHandler := handler.NewFeedHandler(postService, s.feedCache, renderer, s.logger)
	postHandler := handler.NewPostHandler(postService, media, renderer, s.logger)
	followHandler := handler.NewFollowHandler(followService, renderer, s.logger)
	authHandler := handler.NewAuthHandler(authService, tokens, renderer, s.logger)

	// Static assets and uploaded media.
	staticServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", staticServer))
	mediaServer := http.FileServer(http.Dir(media.Root()))
	s.router.Handle("/media/*", http.StripPrefix("/media/", mediaServer))

	// Public pages. OptionalAuth attaches the identity when the session
	// cookie is present, so the nav and follow state render correctly,
	// without blocking guests.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(tokens))

		r.Get("/", feedHandler.HandleIndex)
		r.Get("/group/{slug}/", feedHandler.HandleGroup)
		r.Get("/profile/{username}/", feedHandler.HandleProfile)
		r.Get("/posts/{id}/", postHandler.HandleDetail)
	})

	// Protected pages: RequireAuth redirects guests to the login form.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/create/", postHandler.HandleCreateForm)
		r.Post("/create/", postHandler.HandleCreate)
		r.Get("/posts/{id}/edit/", postHandler.HandleEditForm)
		r.Post("/posts/{id}/edit/", postHandler.HandleEdit)
		r.Post("/posts/{id}/delete/", postHandler.HandleDelete)
		r.Post("/posts/{id}/comment/", postHandler.HandleComment)

		r.Get("/follow/", feedHandler.HandleFollowIndex)
		r.Get("/profile/{username}/follow/", followHandler.HandleFollow)
		r.Get("/profile/{username}/unfollow/", followHandler.HandleUnfollow)
	})

	// Session pages.
	s.router.Get("/auth/signup/", authHandler.HandleSignUpForm)
	s.router.Post("/auth/signup/", authHandler.HandleSignUp)
	s.router.Get("/auth/login/", authHandler.HandleLoginForm)
	s.router.Post("/auth/login/", authHandler.HandleLogin)
	s.router.Get("/auth/logout/", authHandler.HandleLogout)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database and cache.
func (s *Server) Start() error {
	defer s.closeResources()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func (s *Server) closeResources() {
	if closer, ok := s.feedCache.(*cache.Redis); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn("closing redis", slog.String("error", err.Error()))
		}
	}
	if err := s.db.Close(); err != nil {
		s.logger.Warn("closing database", slog.String("error", err.Error()))
	}
}
