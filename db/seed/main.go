// Command seed bootstraps the first administrator of a tenant: it creates the
// Supabase Auth account and the matching profile row.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/opsalert/dispatch-console/environments"
	"github.com/opsalert/dispatch-console/internal/domain"
	"github.com/opsalert/dispatch-console/internal/repository"
	"github.com/opsalert/dispatch-console/internal/service"
	"github.com/opsalert/dispatch-console/pkg/database"
	"github.com/opsalert/dispatch-console/pkg/supabase"
)

func main() {
	_ = godotenv.Load()

	cfg := environments.Load()

	req := domain.RegisterUserRequest{
		Nome:     envOr("SEED_ADMIN_NAME", "Administrador"),
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		Role:     domain.RoleAdmin,
		Regional: envOr("SEED_ADMIN_REGIONAL", domain.RegionNational),
	}
	tenantID := os.Getenv("SEED_TENANT_ID")

	if req.Email == "" || req.Password == "" || tenantID == "" {
		log.Fatalf("SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD and SEED_TENANT_ID are required")
	}

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	users := service.NewUserService(
		service.NewIdentityResolver(userRepo),
		userRepo,
		supabase.NewAdminClient(cfg.Supabase),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The seeding principal carries the tenant claim, so no profile lookup happens.
	seeder := domain.Principal{ID: "seed", TenantID: tenantID, Region: req.Regional}

	user, err := users.Register(ctx, seeder, req)
	if err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Printf("Seed completed successfully: %s (%s) in tenant %s", user.Email, user.ID, user.TenantID)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
