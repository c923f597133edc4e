package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"

	"gorm.io/gorm"
)

type gormCorporateUserRepository struct {
	db *gorm.DB
}

func NewGormCorporateUserRepository(db *gorm.DB) CorporateUserRepository {
	return &gormCorporateUserRepository{db: db}
}

func (r *gormCorporateUserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*model.CorporateUser, error) {
	logger := middleware.GetLogger(ctx)
	var user model.CorporateUser

	result := r.db.WithContext(ctx).Where("tenant_id = ? AND email = ?", tenantID, email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("Corporate user not found by email", "tenant_id", tenantID, "email", email)
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding corporate user by email in DB",
			"error", result.Error,
			"tenant_id", tenantID,
			"email", email,
		)
		return nil, fmt.Errorf("gormCorporateUserRepository.FindByEmail: %w", result.Error)
	}
	return &user, nil
}

func (r *gormCorporateUserRepository) FindByID(ctx context.Context, tenantID, corpAccountID, userID string) (*model.CorporateUser, error) {
	logger := middleware.GetLogger(ctx)
	var user model.CorporateUser

	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND corp_account_id = ? AND user_id = ?", tenantID, corpAccountID, userID).
		First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding corporate user by ID in DB",
			"error", result.Error,
			"tenant_id", tenantID,
			"user_id", userID,
		)
		return nil, fmt.Errorf("gormCorporateUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormCorporateUserRepository) UpdateLastLogin(ctx context.Context, tenantID, corpAccountID, userID string, at time.Time) error {
	logger := middleware.GetLogger(ctx)

	result := r.db.WithContext(ctx).Model(&model.CorporateUser{}).
		Where("tenant_id = ? AND corp_account_id = ? AND user_id = ?", tenantID, corpAccountID, userID).
		Updates(map[string]interface{}{
			"last_login": at,
			"updated_at": at,
		})
	if result.Error != nil {
		logger.Error("Error updating last login", "error", result.Error, "tenant_id", tenantID, "user_id", userID)
		return fmt.Errorf("gormCorporateUserRepository.UpdateLastLogin: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCorporateUserRepository) SetPassword(ctx context.Context, tenantID, corpAccountID, userID, passwordHash string, at time.Time) error {
	logger := middleware.GetLogger(ctx)

	result := r.db.WithContext(ctx).Model(&model.CorporateUser{}).
		Where("tenant_id = ? AND corp_account_id = ? AND user_id = ?", tenantID, corpAccountID, userID).
		Updates(map[string]interface{}{
			"password_hash":   passwordHash,
			"password_set_at": at,
			"last_login":      at,
			"status":          model.UserStatusActive,
			"updated_at":      at,
		})
	if result.Error != nil {
		logger.Error("Error setting password", "error", result.Error, "tenant_id", tenantID, "user_id", userID)
		return fmt.Errorf("gormCorporateUserRepository.SetPassword: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
