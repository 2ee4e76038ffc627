package accounts

import (
	"context"
	"fmt"
	"log"

	"librarian_backend/internals/configs"
)

type AccountEnsurer interface {
	EnsureUser(ctx context.Context, email, password, role string) (bool, error)
}

// SeedAccounts inserts each account as a regular users row unless its email
// is already registered. Existing rows are left untouched.
func SeedAccounts(ctx context.Context, users AccountEnsurer, seeds ...configs.SeedAccount) error {
	for _, s := range seeds {
		if s.Email == "" || s.Password == "" {
			log.Printf("ℹ️ Seed account with role %q has no email or password, skipped.", s.Role)
			continue
		}

		created, err := users.EnsureUser(ctx, s.Email, s.Password, s.Role)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", s.Email, err)
		}
		if created {
			log.Printf("✅ Seed account %s (%s) created.", s.Email, s.Role)
		} else {
			log.Printf("ℹ️ Seed account %s already exists, skipped.", s.Email)
		}
	}
	return nil
}
