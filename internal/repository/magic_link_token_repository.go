package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type gormMagicLinkTokenRepository struct {
	db *gorm.DB
}

func NewGormMagicLinkTokenRepository(db *gorm.DB) MagicLinkTokenRepository {
	return &gormMagicLinkTokenRepository{db: db}
}

func (r *gormMagicLinkTokenRepository) Create(ctx context.Context, token *model.MagicLinkToken) error {
	logger := middleware.GetLogger(ctx)

	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// 256bit の乱数なので実際には起きないが、上書きはしない
			logger.Warn("Duplicate magic link token", "token_prefix", model.TokenPrefix(token.Token))
			return model.ErrConflict
		}
		logger.Error("Failed to create magic link token", "error", err, "tenant_id", token.TenantID)
		return fmt.Errorf("gormMagicLinkTokenRepository.Create: %w", err)
	}
	return nil
}

func (r *gormMagicLinkTokenRepository) FindByToken(ctx context.Context, tenantID, tokenStr string) (*model.MagicLinkToken, error) {
	logger := middleware.GetLogger(ctx)
	var token model.MagicLinkToken

	if err := r.db.WithContext(ctx).Where("token = ? AND tenant_id = ?", tokenStr, tenantID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Failed to find magic link token", "error", err, "token_prefix", model.TokenPrefix(tokenStr))
		return nil, fmt.Errorf("gormMagicLinkTokenRepository.FindByToken: %w", err)
	}
	return &token, nil
}

// MarkUsed は UPDATE ... WHERE used = false で原子的に消費する。
// 同時に verify されても RowsAffected が 1 になるのは片方だけ。
func (r *gormMagicLinkTokenRepository) MarkUsed(ctx context.Context, tenantID, tokenStr string, at time.Time) error {
	logger := middleware.GetLogger(ctx)

	result := r.db.WithContext(ctx).Model(&model.MagicLinkToken{}).
		Where("token = ? AND tenant_id = ? AND used = ?", tokenStr, tenantID, false).
		Updates(map[string]interface{}{
			"used":    true,
			"used_at": at,
		})
	if result.Error != nil {
		logger.Error("Failed to mark magic link token used", "error", result.Error, "token_prefix", model.TokenPrefix(tokenStr))
		return fmt.Errorf("gormMagicLinkTokenRepository.MarkUsed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrConditionFailed
	}
	return nil
}

func (r *gormMagicLinkTokenRepository) CountIssuedSince(ctx context.Context, tenantID, email string, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.MagicLinkToken{}).
		Where("tenant_id = ? AND email = ? AND created_at >= ?", tenantID, email, since).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("gormMagicLinkTokenRepository.CountIssuedSince: %w", err)
	}
	return n, nil
}

// DeleteExpired は TTL を過ぎたトークンを削除する。SQL には TTL による自動削除がないため定期的に呼ぶ。
func (r *gormMagicLinkTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("ttl_epoch_seconds < ?", now.Unix()).Delete(&model.MagicLinkToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("gormMagicLinkTokenRepository.DeleteExpired: %w", result.Error)
	}
	return result.RowsAffected, nil
}
