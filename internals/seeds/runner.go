package seeds

import (
	"context"
	"log"

	"librarian_backend/internals/configs"
	books "librarian_backend/internals/seeds/library/books"
	accounts "librarian_backend/internals/seeds/users/accounts"
)

// RunAllSeeds ensures the bootstrap accounts and, when configured, loads a
// starter catalog. It is safe to run on every start.
func RunAllSeeds(ctx context.Context, cfg configs.Config, users accounts.AccountEnsurer, catalog books.Catalog) error {
	//* Users
	if err := accounts.SeedAccounts(ctx, users, cfg.SeedAdmin, cfg.SeedUser); err != nil {
		return err
	}

	//* Library
	if cfg.SeedBooksFile != "" {
		if err := books.SeedBooksFromJSON(ctx, catalog, cfg.SeedBooksFile); err != nil {
			return err
		}
	}

	log.Println("[INFO] Seeding done")
	return nil
}
