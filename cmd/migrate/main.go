// migrate はテーブル作成、デモデータ投入、期限切れトークンの削除を行う管理コマンドです。
//
//	go run ./cmd/migrate -config configs            # AutoMigrate のみ
//	go run ./cmd/migrate -seed                      # デモ用の法人アカウントとユーザーも作る
//	go run ./cmd/migrate -purge-expired             # TTL を過ぎたトークンを削除
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/password"
	"go_corporate_auth/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	seed := flag.Bool("seed", false, "insert demo corporate accounts and users")
	purge := flag.Bool("purge-expired", false, "delete magic link tokens whose TTL has passed")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := config.LoadConfig(*configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg
	ctx := context.Background()

	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		slog.Error("Error initializing store", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	if store.DB != nil {
		if err := repository.AutoMigrate(store.DB); err != nil {
			slog.Error("Auto migration failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Auto migration completed")
	} else {
		slog.Info("Store backend has no schema to migrate", slog.String("backend", cfg.Store.Backend))
	}

	if *seed {
		if store.DB == nil {
			slog.Error("-seed is only supported for the gorm backend")
			os.Exit(1)
		}
		if err := seedDemo(ctx, store.DB, cfg); err != nil {
			slog.Error("Seeding failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if *purge {
		n, err := store.Tokens.DeleteExpired(ctx, time.Now())
		if err != nil {
			slog.Error("Purging expired tokens failed", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Expired magic link tokens purged", slog.Int64("deleted", n))
	}
}

// seedDemo は default テナントに active / suspended の法人アカウントを 1 つずつ作る。
// 既に存在する行はそのまま残す。
func seedDemo(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	tenantID := cfg.Tenant.DefaultID
	if tenantID == "" {
		return errors.New("tenant.default_id is required for seeding")
	}
	now := time.Now().UTC()

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	bobHash, err := hasher.Hash("correctPass1!")
	if err != nil {
		return err
	}

	accounts := []model.CorporateAccount{
		{TenantID: tenantID, CorpAccountID: "acct-acme", CompanyName: "Acme Co", Status: model.AccountStatusActive, CreatedAt: now, UpdatedAt: now},
		{TenantID: tenantID, CorpAccountID: "acct-globex", CompanyName: "Globex", Status: model.AccountStatusSuspended, CreatedAt: now, UpdatedAt: now},
	}
	users := []model.CorporateUser{
		{
			TenantID: tenantID, CorpAccountID: "acct-acme", UserID: uuid.NewString(),
			Email: "alice@acme.co", Name: "Alice", Role: model.RoleAdmin, Status: model.UserStatusPending,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			TenantID: tenantID, CorpAccountID: "acct-globex", UserID: uuid.NewString(),
			Email: "bob@globex.co", Name: "Bob", Role: model.RoleBooker, Status: model.UserStatusActive,
			PasswordHash: &bobHash, PasswordSetAt: &now,
			CreatedAt: now, UpdatedAt: now,
		},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&accounts).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users).Error; err != nil {
			return err
		}
		slog.Info("Demo data seeded", slog.String("tenant_id", tenantID), slog.Int("accounts", len(accounts)), slog.Int("users", len(users)))
		return nil
	})
}
