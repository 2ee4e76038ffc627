package books

import (
	"context"
	"fmt"
	"log"
	"os"

	jsoniter "github.com/json-iterator/go"

	"librarian_backend/internals/features/library/books/dto"
	"librarian_backend/internals/features/library/books/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Catalog interface {
	AddBook(ctx context.Context, req dto.BookCreateRequest) (*model.BookModel, error)
	CountBooks(ctx context.Context) (int64, error)
}

// SeedBooksFromJSON loads a starter catalog into an empty books table. A
// catalog that already holds books is left as is.
func SeedBooksFromJSON(ctx context.Context, catalog Catalog, filePath string) error {
	log.Println("📥 Reading file:", filePath)

	n, err := catalog.CountBooks(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if n > 0 {
		log.Printf("ℹ️ Catalog already has %d books, seed skipped.", n)
		return nil
	}

	file, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	var seeds []dto.BookCreateRequest
	if err := json.Unmarshal(file, &seeds); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}

	for i, s := range seeds {
		if _, err := catalog.AddBook(ctx, s); err != nil {
			return fmt.Errorf("seed book #%d %q: %w", i+1, s.Title, err)
		}
	}
	log.Printf("✅ Seeded %d books.", len(seeds))
	return nil
}
