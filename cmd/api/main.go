package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/bootstrap"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/googlebooks"
	"bookcatalog/internal/platform/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer dbPool.Close()

	bookRepository := book.NewPostgresRepo(dbPool, cfg.DBTimeout)

	report, err := bootstrap.NewLoader(bookRepository, cfg.SeedFile).Run(ctx)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	log.Printf("bootstrap complete: existing=%d seeded=%t created=%d ignored=%d failed=%d",
		report.Existing, report.Seeded, report.Created, report.Ignored, report.Failed)

	googleBooksClient := googlebooks.NewClient(googlebooks.Options{
		BaseURL:    cfg.GoogleBooks.BaseURL,
		APIKey:     cfg.GoogleBooks.APIKey,
		UserAgent:  cfg.GoogleBooks.UserAgent,
		RPS:        cfg.GoogleBooks.RPS,
		MaxRetries: cfg.GoogleBooks.MaxRetries,
		MaxResults: cfg.GoogleBooks.MaxResults,
	})
	bookService := book.NewService(bookRepository, book.NewGoogleBooksFinder(googleBooksClient), cfg.AdminSecret)
	bookHandler := book.NewHTTPHandler(bookService)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy)
	defer rateLimiter.Stop()

	router := newRouter(bookHandler, dbPool, cfg.ClientURL)
	handler := httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(false),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

func newRouter(bookHandler *book.HTTPHandler, db pinger, clientURL string) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	bookHandler.RegisterRoutes(router)

	// Anything else belongs to the client application.
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if clientURL == "" {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
			return
		}
		http.Redirect(w, r, clientURL, http.StatusFound)
	})

	return router
}
