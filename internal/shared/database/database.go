package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homestay/internal/shared/config"
	"homestay/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the reservation store and the optional Redis connection
type DB struct {
	PostgreSQL *gorm.DB
	Redis      *redis.Client
}

// InitDB connects to Postgres, applies the schema and booking constraints, then
// connects to Redis. A Redis failure is fatal only when cfg.Redis.Required is set.
func InitDB(cfg *config.Config) (*DB, error) {
	log := logger.GetDefault().WithComponent("database")

	pg, err := initPostgreSQL(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	if err := Migrate(pg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := MigrateConstraints(pg); err != nil {
		return nil, fmt.Errorf("failed to apply booking constraints: %w", err)
	}
	log.Info("PostgreSQL connected, booking constraints in place")

	rdb, err := initRedis(cfg)
	if err != nil {
		if cfg.Redis.Required {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		// Locks, range cache and analytics cache are skipped; the exclusion constraint still guards bookings
		log.Warn("Redis unavailable, continuing without it", "addr", cfg.Redis.Addr, "error", err)
		rdb = nil
	} else {
		log.Info("Redis connected", "addr", cfg.Redis.Addr)
	}

	return &DB{
		PostgreSQL: pg,
		Redis:      rdb,
	}, nil
}

func initPostgreSQL(cfg *config.Config) (*gorm.DB, error) {
	var gormLogger gormlogger.Interface
	if cfg.IsDevelopment() {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	gormConfig := &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Booking creation holds a hotel row lock for the whole transaction, so keep
	// enough open connections for concurrent reservations across hotels.
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		PoolSize:     10,
		MinIdleConns: 5,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// Close closes all database connections
func (db *DB) Close() error {
	var errs []error

	if db.PostgreSQL != nil {
		if sqlDB, err := db.PostgreSQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close PostgreSQL: %w", err))
			}
		}
	}
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %w", errors.Join(errs...))
	}
	logger.GetDefault().WithComponent("database").Info("All database connections closed")
	return nil
}

// HealthCheck pings Postgres and Redis and verifies the booking constraints
// are still installed
func (db *DB) HealthCheck(ctx context.Context) error {
	if db.PostgreSQL != nil {
		sqlDB, err := db.PostgreSQL.DB()
		if err != nil {
			return fmt.Errorf("PostgreSQL health check failed: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("PostgreSQL ping failed: %w", err)
		}
		if err := db.checkBookingConstraints(ctx); err != nil {
			return err
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}

func (db *DB) checkBookingConstraints(ctx context.Context) error {
	var installed []string
	err := db.PostgreSQL.WithContext(ctx).Raw(`
		SELECT conname FROM pg_constraint WHERE conname IN ?
		UNION
		SELECT indexname FROM pg_indexes WHERE indexname IN ?
	`, RequiredConstraints, RequiredConstraints).Scan(&installed).Error
	if err != nil {
		return fmt.Errorf("booking constraint check failed: %w", err)
	}
	if missing := MissingConstraints(installed); len(missing) > 0 {
		return fmt.Errorf("booking constraints missing: %v", missing)
	}
	return nil
}

// GetRedisClient returns the Redis client, nil when running without Redis
func (db *DB) GetRedisClient() *redis.Client {
	return db.Redis
}

// GetPostgreSQL returns the PostgreSQL GORM instance
func (db *DB) GetPostgreSQL() *gorm.DB {
	return db.PostgreSQL
}
