package configs

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Conflict scopes for borrow requests.
const (
	ConflictScopeActive = "active"
	ConflictScopeAll    = "all"
)

type DatabaseConfig struct {
	User        string
	Password    string
	Host        string
	Port        string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// LogConfig shapes the access log. Format uses fiber logger tags.
type LogConfig struct {
	Format   string
	TimeZone string
}

const DefaultLogFormat = "[${time}] ${ip} - ${locals:reqid} - ${method} ${path} - ${status} - ${latency}\n"

// SeedAccount is a bootstrap login ensured as a users row at startup.
type SeedAccount struct {
	Email    string
	Password string
	Role     string
}

type Config struct {
	Port           string
	Environment    string
	RequestTimeout time.Duration

	DB  DatabaseConfig
	Log LogConfig

	CorsAllowOrigins []string
	BasicAuthRealm   string

	SeedAdmin     SeedAccount
	SeedUser      SeedAccount
	SeedBooksFile string

	BorrowConflictScope  string
	BorrowTxMaxAttempts  int
	BorrowTxRetryBackoff time.Duration
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system environment")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system environment")
	}
}

// Load reads the process environment into a Config. Call LoadEnv first if a
// .env file should be honoured.
func Load() Config {
	cfg := Config{
		Port:           GetEnv("PORT", "3000"),
		Environment:    GetEnv("RAILWAY_ENVIRONMENT", "local"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 5*time.Second),
		DB: DatabaseConfig{
			User:        GetEnv("DB_USER"),
			Password:    GetEnv("DB_PASSWORD"),
			Host:        GetEnv("DB_HOST", "localhost"),
			Port:        GetEnv("DB_PORT", "5432"),
			Name:        GetEnv("DB_NAME", "librarian"),
			SSLMode:     GetEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getBool("DB_AUTO_MIGRATE", true),
		},
		Log: LogConfig{
			Format:   GetEnv("LOG_FORMAT", DefaultLogFormat),
			TimeZone: GetEnv("LOG_TIMEZONE", "UTC"),
		},
		CorsAllowOrigins: splitList(GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		BasicAuthRealm:   GetEnv("BASIC_AUTH_REALM", "Library"),
		SeedAdmin: SeedAccount{
			Email:    GetEnv("SEED_ADMIN_EMAIL", "admin@library.local"),
			Password: GetEnv("SEED_ADMIN_PASSWORD", "admin123"),
			Role:     "admin",
		},
		SeedUser: SeedAccount{
			Email:    GetEnv("SEED_USER_EMAIL", "user1@library.local"),
			Password: GetEnv("SEED_USER_PASSWORD", "user123"),
			Role:     "user",
		},
		SeedBooksFile:        GetEnv("SEED_BOOKS_FILE"),
		BorrowConflictScope:  GetEnv("BORROW_CONFLICT_SCOPE", ConflictScopeActive),
		BorrowTxMaxAttempts:  getInt("BORROW_TX_MAX_ATTEMPTS", 3),
		BorrowTxRetryBackoff: getDuration("BORROW_TX_RETRY_BACKOFF", 20*time.Millisecond),
	}

	switch cfg.BorrowConflictScope {
	case ConflictScopeActive, ConflictScopeAll:
	default:
		log.Printf("❌ BORROW_CONFLICT_SCOPE=%q unknown, using %q", cfg.BorrowConflictScope, ConflictScopeActive)
		cfg.BorrowConflictScope = ConflictScopeActive
	}
	if cfg.BorrowTxMaxAttempts < 1 {
		log.Printf("❌ BORROW_TX_MAX_ATTEMPTS=%d invalid, using 1", cfg.BorrowTxMaxAttempts)
		cfg.BorrowTxMaxAttempts = 1
	}

	if cfg.DB.User == "" {
		log.Println("❌ DB_USER is not set!")
	}
	if cfg.SeedAdmin.Password == "admin123" {
		log.Println("⚠️ SEED_ADMIN_PASSWORD is the default, change it outside local development")
	}

	return cfg
}

// IsProduction reports whether the service runs in a production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a number, using %d", key, raw, def)
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a bool, using %v", key, raw, def)
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("⚠️ %s=%q is not a duration, using %s", key, raw, def)
		return def
	}
	return v
}

func splitList(raw string) []string {
	out := make([]string, 0, 4)
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
