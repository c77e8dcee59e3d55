package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pressroomhq/pressroom/pkg/pressroom"
	"github.com/pressroomhq/pressroom/pkg/pressroom/api"
	"github.com/pressroomhq/pressroom/pkg/pressroom/auth"
	"github.com/pressroomhq/pressroom/pkg/pressroom/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	serverConfig, err := loadServerConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	svc, err := serverConfig.BuildService(context.Background())
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}
	authService := serverConfig.BuildAuth()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(svc, authService, serverConfig),
	}

	go func() {
		slog.Info("pressroom server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"storage", serverConfig.StorageURL)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("server exiting")
}

// routes sets up the HTTP routes
func routes(svc pressroom.Service, authService *auth.Service, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.Get("/api/health", api.HealthHandler)
	r.Mount("/api/auth", api.NewAuthHandler(authService).Routes())
	r.Mount("/api/public", api.NewPublicHandler(svc).Routes())

	r.Route("/api/content", func(r chi.Router) {
		r.Use(authService.Verifier())
		r.Use(auth.RequireAdmin)
		r.Mount("/", api.NewContentHandler(svc).Routes())
	})

	// Static serving of uploaded attachments, only meaningful with the
	// filesystem backend.
	if baseDir := cfg.FSBaseDir(); baseDir != "" {
		prefix := cfg.UploadURLPrefix
		fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(baseDir)))
		r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
			fileServer.ServeHTTP(w, req)
		})
	}

	return r
}

// corsMiddleware allows browser calls from the configured origins. Requests
// from other origins get no CORS headers and fail the browser's check.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && allowed[origin] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
