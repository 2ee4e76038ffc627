package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"librarian_backend/internals/configs"
	database "librarian_backend/internals/databases"
	bookRepository "librarian_backend/internals/features/library/books/repository"
	bookService "librarian_backend/internals/features/library/books/service"
	borrowRepository "librarian_backend/internals/features/library/borrow_requests/repository"
	borrowService "librarian_backend/internals/features/library/borrow_requests/service"
	userRepository "librarian_backend/internals/features/users/user/repository"
	userService "librarian_backend/internals/features/users/user/service"
	helper "librarian_backend/internals/helpers"
	middlewares "librarian_backend/internals/middlewares"
	routes "librarian_backend/internals/route"
	"librarian_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	middlewares.SetupMiddlewares(app, cfg)

	// 🔌 DB connect + pool + warm-up
	db := database.ConnectDB(cfg.DB)
	database.TunePool(db)
	database.WarmUpQueries(db)

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
	}

	// 🧩 Wiring
	users := userService.NewUserService(userRepository.NewUserRepository(db))
	books := bookService.NewBookService(bookRepository.NewBookRepository(db))
	borrows := borrowService.NewBorrowRequestService(
		borrowRepository.NewBorrowRequestRepository(db,
			borrowRepository.WithRetry(cfg.BorrowTxMaxAttempts, cfg.BorrowTxRetryBackoff),
		),
		borrowService.WithConflictScope(cfg.BorrowConflictScope),
	)
	log.Printf("[INFO] Borrow conflict scope: %s", cfg.BorrowConflictScope)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := seeds.RunAllSeeds(seedCtx, cfg, users, books); err != nil {
		cancelSeed()
		log.Fatalf("❌ Seeding failed: %v", err)
	}
	cancelSeed()

	// ✅ Routes
	routes.SetupRoutes(app, cfg, routes.Services{
		Users:   users,
		Books:   books,
		Borrows: borrows,
		Ping:    func() error { return database.Ping(db) },
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
