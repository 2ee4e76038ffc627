package database

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"librarian_backend/internals/configs"
	bookModel "librarian_backend/internals/features/library/books/model"
	borrowModel "librarian_backend/internals/features/library/borrow_requests/model"
	userModel "librarian_backend/internals/features/users/user/model"
)

// DSN builds the Postgres URL. Sessions run in UTC with a statement timeout
// so that date comparisons never depend on the server's timezone.
func DSN(cfg configs.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("application_name", "librarian")
	q.Set("TimeZone", "UTC")
	q.Set("options", "-c statement_timeout=3000")
	u.RawQuery = q.Encode()
	return u.String()
}

func ConnectDB(cfg configs.DatabaseConfig) *gorm.DB {
	log.Println("🔌 Connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(cfg),
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ DB connected.")
	return db
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

const borrowForeignKeysDDL = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_borrow_requests_user') THEN
		ALTER TABLE borrow_requests ADD CONSTRAINT fk_borrow_requests_user
			FOREIGN KEY (borrow_request_user_id) REFERENCES users(id);
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_borrow_requests_book') THEN
		ALTER TABLE borrow_requests ADD CONSTRAINT fk_borrow_requests_book
			FOREIGN KEY (borrow_request_book_id) REFERENCES books(book_id);
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_borrow_request_events_request') THEN
		ALTER TABLE borrow_request_events ADD CONSTRAINT fk_borrow_request_events_request
			FOREIGN KEY (borrow_request_event_request_id) REFERENCES borrow_requests(borrow_request_id);
	END IF;
END $$;`

// approvedNoOverlapDDL keeps approved intervals of one book disjoint at the
// storage layer. It needs btree_gist, which managed databases may not allow.
const approvedNoOverlapDDL = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ex_borrow_requests_approved_no_overlap') THEN
		ALTER TABLE borrow_requests
			ADD CONSTRAINT ex_borrow_requests_approved_no_overlap
			EXCLUDE USING gist (
				borrow_request_book_id WITH =,
				daterange(borrow_request_start_date, borrow_request_end_date, '[]') WITH &&
			) WHERE (borrow_request_status = 'approved');
	END IF;
END $$;`

func Migrate(db *gorm.DB) error {
	log.Println("[INFO] Running AutoMigrate...")
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&bookModel.BookModel{},
		&borrowModel.BorrowRequestModel{},
		&borrowModel.BorrowRequestEventModel{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	if err := db.Exec(borrowForeignKeysDDL).Error; err != nil {
		return fmt.Errorf("foreign keys: %w", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		log.Printf("⚠️ btree_gist unavailable, approved-overlap constraint skipped: %v", err)
		return nil
	}
	if err := db.Exec(approvedNoOverlapDDL).Error; err != nil {
		log.Printf("⚠️ approved-overlap constraint not created: %v", err)
	}
	return nil
}
