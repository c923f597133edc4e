package repository

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_corporate_auth/internal/model"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB は driver (postgres / sqlite) に応じて GORM の接続を開く
func NewDB(driver, databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	// APP_ENV=dev のときだけ SQL をすべて出す
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)
	finalGormLogger := slogGormLogger.LogMode(gormLogLevel)

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "":
		dialector = postgres.Open(databaseURL)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: finalGormLogger,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err), slog.String("driver", driver))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	appLogger.Info("Database connection established with GORM", slog.String("driver", driver))
	return db, nil
}

// AutoMigrate は認証サービスが使うテーブルを作成・更新する
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.CorporateAccount{},
		&model.CorporateUser{},
		&model.MagicLinkToken{},
	)
}
