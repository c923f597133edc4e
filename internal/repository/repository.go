//go:generate mockery --name CorporateUserRepository --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name CorporateAccountRepository --output ./mocks --outpkg mocks --case=underscore
//go:generate mockery --name MagicLinkTokenRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"time"

	"go_corporate_auth/internal/model"
)

// CorporateUserRepository は法人ユーザーの読み取りと、認証に関わる項目の更新を行う。
// すべての操作は tenantID でスコープされる。
type CorporateUserRepository interface {
	FindByEmail(ctx context.Context, tenantID, email string) (*model.CorporateUser, error)
	FindByID(ctx context.Context, tenantID, corpAccountID, userID string) (*model.CorporateUser, error)
	UpdateLastLogin(ctx context.Context, tenantID, corpAccountID, userID string, at time.Time) error
	// SetPassword は passwordHash / passwordSetAt / lastLogin を保存し、status を active にする
	SetPassword(ctx context.Context, tenantID, corpAccountID, userID, passwordHash string, at time.Time) error
}

type CorporateAccountRepository interface {
	FindByID(ctx context.Context, tenantID, corpAccountID string) (*model.CorporateAccount, error)
}

type MagicLinkTokenRepository interface {
	Create(ctx context.Context, token *model.MagicLinkToken) error
	FindByToken(ctx context.Context, tenantID, token string) (*model.MagicLinkToken, error)
	// MarkUsed は used=false の場合だけ used=true にする。条件を満たさなければ model.ErrConditionFailed。
	MarkUsed(ctx context.Context, tenantID, token string, at time.Time) error
	CountIssuedSince(ctx context.Context, tenantID, email string, since time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
