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

	"verbalist/internal/auth"
	"verbalist/internal/config"
	"verbalist/internal/docstore"
	"verbalist/internal/handlers"
	"verbalist/internal/ratelimit"
	"verbalist/internal/repository"
	"verbalist/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := handlers.NewStartupStatus()

	// Connect the document store (runs migrations for SQL)
	status.SetCurrentStep(handlers.StepStore)
	store, err := docstore.OpenFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open document store: %v", err)
	}
	defer store.Close()
	status.CompleteStep(handlers.StepStore)

	// Initialize repositories
	listRepo := repository.NewListRepository(store)
	sessionRepo := repository.NewSessionRepository(store)
	userRepo := repository.NewUserRepository(store)

	// Initialize services
	status.SetCurrentStep(handlers.StepServices)
	userService := service.NewUserService(userRepo, listRepo)
	listService := service.NewListService(listRepo, userService)
	svc := handlers.Services{
		Sessions: service.NewSessionService(listRepo, sessionRepo, nil),
		Lists:    listService,
		Users:    userService,
		Personas: service.NewPersonaCatalog(),
	}
	if cfg.RateLimit > 0 {
		svc.Limiter = ratelimit.New(cfg.RateLimit, cfg.RateWindow)
		go svc.Limiter.RunCleanup(ctx, time.Hour)
	}
	status.CompleteStep(handlers.StepServices)

	// Seed template lists
	if cfg.SeedOnStart {
		status.SetCurrentStep(handlers.StepSeed)
		lists, err := service.LoadTemplateLists(cfg.WordListsFile)
		if err != nil {
			log.Fatalf("Failed to load template lists: %v", err)
		}
		created, err := listService.SeedTemplateLists(ctx, lists)
		if err != nil {
			log.Printf("Warning: Failed to seed template lists: %v", err)
		} else {
			log.Printf("Seeded %d template lists (%d already present)", created, len(lists)-created)
		}
	}
	status.CompleteStep(handlers.StepSeed)

	verifier, err := auth.NewVerifier(cfg.AuthSecret, cfg.AuthIssuer)
	if errors.Is(err, auth.ErrMissingSecret) {
		log.Println("Warning: AUTH_SECRET is not set, all requests are unauthenticated")
		verifier = nil
	} else if err != nil {
		log.Fatalf("Failed to create token verifier: %v", err)
	}

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(svc, verifier, status),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	status.MarkReady()

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
