package main

import (
	"checkin/docs"
	"checkin/internal/app"
	"checkin/internal/cache"
	"checkin/internal/config"
	"checkin/internal/iplookup"
	"checkin/internal/live"
	"checkin/internal/repository"
	"checkin/internal/service"
	"checkin/internal/transport/rest"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// @title Check-in API
// @version 1.0
// @description Live contact-collection sessions
// @host localhost:8080
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("started")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := app.Connect(ctx, cfg, true)
	if err != nil {
		log.Fatal(err)
	}
	defer infra.Close(context.Background())

	// Initialize repositories
	sessionRepo := repository.NewSessionRepo(infra.DB)
	participantRepo := repository.NewParticipantRepo(infra.DB)
	adminRepo := repository.NewAdminRepo(infra.DB)
	for name, r := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{"sessions": sessionRepo, "participants": participantRepo, "admins": adminRepo} {
		if err := r.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to create %s indexes: %v", name, err)
		}
	}

	// Initialize caches
	changes := cache.NewChangeBus(infra.Redis)
	tokens := cache.NewTokenCache(infra.Redis)

	// Changes from every instance, this one included, reach local viewers
	// through the bus
	hub := live.NewHub()
	go func() {
		if err := changes.Listen(ctx, hub.Notify); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[changes] listener stopped: %v", err)
		}
	}()
	log.Println("Live hub started")

	var resolver iplookup.Resolver = iplookup.RequestResolver{}
	if cfg.IPLookupMode == config.IPLookupHTTP {
		resolver = iplookup.NewHTTPResolver(cfg.IPLookupURL, cfg.IPLookupTimeout)
	}

	// Initialize services
	authSvc := service.NewAuthService(adminRepo, tokens, cfg.JWTSecret, cfg.TokenTTL)
	sessionSvc := service.NewSessionService(sessionRepo)
	registrarSvc := service.NewRegistrarService(sessionRepo, participantRepo, resolver)
	querySvc := service.NewQueryService(sessionRepo, participantRepo)
	contactSvc := service.NewContactService(sessionRepo, participantRepo, cfg.ExportFilePrefix)

	authSvc.SetPublisher(changes)
	sessionSvc.SetPublisher(changes)
	registrarSvc.SetPublisher(changes)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		SessionService:   sessionSvc,
		RegistrarService: registrarSvc,
		QueryService:     querySvc,
		ContactService:   contactSvc,
		LiveHub:          hub,
		HistoryLimit:     cfg.HistoryLimit,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("IP lookup mode: %s", cfg.IPLookupMode)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login, /v1/auth/logout")
		log.Println("  POST/GET /v1/sessions")
		log.Println("  POST /v1/sessions/active/end")
		log.Println("  POST/GET /v1/sessions/{id}/participants")
		log.Println("  GET  /v1/sessions/active/contacts.vcf")
		log.Println("  WS   /v1/ws/live, /v1/ws/admin")
		log.Printf("  GET  /v1/docs/swagger.json (%s)", docs.SwaggerInfo.Title)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
