package main

import (
	"checkin/internal/app"
	"checkin/internal/config"
	"checkin/internal/repository"
	"checkin/internal/service"
	"context"
	"log"
	"time"
)

// Creates the admin account from ADMIN_EMAIL / ADMIN_PASSWORD, or resets
// its password when it already exists
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	infra, err := app.Connect(ctx, cfg, false)
	if err != nil {
		log.Fatal(err)
	}
	defer infra.Close(context.Background())

	adminRepo := repository.NewAdminRepo(infra.DB)
	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create admin indexes: %v", err)
	}

	// Token revocation is not needed to create an account
	authSvc := service.NewAuthService(adminRepo, nil, cfg.JWTSecret, cfg.TokenTTL)
	admin, err := authSvc.CreateAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin %s ready (id %s)", admin.Email, admin.ID)
}
