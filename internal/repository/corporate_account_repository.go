package repository

import (
	"context"
	"errors"
	"fmt"

	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"

	"gorm.io/gorm"
)

type gormCorporateAccountRepository struct {
	db *gorm.DB
}

func NewGormCorporateAccountRepository(db *gorm.DB) CorporateAccountRepository {
	return &gormCorporateAccountRepository{db: db}
}

func (r *gormCorporateAccountRepository) FindByID(ctx context.Context, tenantID, corpAccountID string) (*model.CorporateAccount, error) {
	logger := middleware.GetLogger(ctx)
	var account model.CorporateAccount

	result := r.db.WithContext(ctx).Where("tenant_id = ? AND corp_account_id = ?", tenantID, corpAccountID).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding corporate account in DB",
			"error", result.Error,
			"tenant_id", tenantID,
			"corp_account_id", corpAccountID,
		)
		return nil, fmt.Errorf("gormCorporateAccountRepository.FindByID: %w", result.Error)
	}
	return &account, nil
}
