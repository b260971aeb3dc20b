// Package seeder creates the initial admin account at startup.
package seeder

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"Cortex-Attendance-Backend/src/config"
	"Cortex-Attendance-Backend/src/models"
	"Cortex-Attendance-Backend/src/storage"
)

// SeedAdmin inserts the configured admin account when it does not exist
// yet. Without ADMIN_EMAIL/ADMIN_PASSWORD the seeder is a no-op.
func SeedAdmin(ctx context.Context, users storage.UserStore, cfg *config.Settings) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	if _, err := users.FindByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:      "Admin User",
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := users.Insert(ctx, admin); err != nil {
		return err
	}

	log.Println("✅ Admin user seeded:", cfg.AdminEmail)
	return nil
}
