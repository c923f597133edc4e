package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go_corporate_auth/internal/config"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"gorm.io/gorm"
)

// Store は store.backend に応じて選んだリポジトリ一式です
type Store struct {
	Users    CorporateUserRepository
	Accounts CorporateAccountRepository
	Tokens   MagicLinkTokenRepository

	// DB は gorm バックエンドのときだけ設定される
	DB *gorm.DB

	ping  func(ctx context.Context) error
	close func() error
}

// Ping はストアへの疎通を確認する (ヘルスチェック用)
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Store) Close() error {
	return s.close()
}

// OpenStore は設定に従って gorm (postgres / sqlite) か Firestore のストアを開く
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.Store.Backend {
	case "gorm", "":
		db, err := NewDB(cfg.Database.Driver, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    NewGormCorporateUserRepository(db),
			Accounts: NewGormCorporateAccountRepository(db),
			Tokens:   NewGormMagicLinkTokenRepository(db),
			DB:       db,
			ping:     sqlDB.PingContext,
			close:    sqlDB.Close,
		}, nil

	case "firestore":
		client, err := NewFirestoreClient(ctx, cfg.Firestore.ProjectID)
		if err != nil {
			return nil, err
		}
		logger.Info("Firestore client initialized", slog.String("project_id", cfg.Firestore.ProjectID))
		return &Store{
			Users:    NewFirestoreCorporateUserRepository(client),
			Accounts: NewFirestoreCorporateAccountRepository(client),
			Tokens:   NewFirestoreMagicLinkTokenRepository(client),
			ping:     func(ctx context.Context) error { return pingFirestore(ctx, client) },
			close:    client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}

// pingFirestore は小さなクエリを 1 件だけ読んで疎通を確認する
func pingFirestore(ctx context.Context, client *firestore.Client) error {
	iter := client.Collection(collectionCorporateAccounts).Limit(1).Select().Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}
