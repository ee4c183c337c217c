// Command seed bootstraps the platform super-admin account. It is safe
// to run repeatedly; an existing account is left untouched.
package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
	"github.com/lifemedical/backend/internal/infrastructure/config"
	"github.com/lifemedical/backend/internal/infrastructure/logger"
	"github.com/lifemedical/backend/internal/infrastructure/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		log.Fatal("Seed requires seed.admin_email and seed.admin_password to be set")
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := persistence.NewGormUserRepository(db.DB)
	sequences := persistence.NewGormSequenceRepository(db.DB)

	exists, err := userRepo.ExistsByEmail(ctx, cfg.Seed.AdminEmail)
	if err != nil {
		log.Fatal("Failed to check for existing admin", zap.Error(err))
	}
	if exists {
		log.Info("Super admin already exists", zap.String("email", cfg.Seed.AdminEmail))
		return
	}

	seq, err := sequences.Next(ctx, shared.SequenceUser)
	if err != nil {
		log.Fatal("Failed to allocate user sequence", zap.Error(err))
	}

	name := cfg.Seed.AdminName
	if name == "" {
		name = "Super Admin"
	}
	admin, err := identity.NewSuperAdmin(seq, name, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal("Failed to build super admin", zap.Error(err))
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal("Failed to create super admin", zap.Error(err))
	}

	log.Info("Super admin created", zap.String("email", admin.Email))
}
