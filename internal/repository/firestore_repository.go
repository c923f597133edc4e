package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore のコレクション名
const (
	collectionCorporateUsers    = "corporate_users"
	collectionCorporateAccounts = "corporate_accounts"
	collectionMagicLinkTokens   = "magic_link_tokens"
)

// ドキュメントIDは複合キーを # で連結したもの
func userDocID(tenantID, corpAccountID, userID string) string {
	return tenantID + "#" + corpAccountID + "#" + userID
}

func accountDocID(tenantID, corpAccountID string) string {
	return tenantID + "#" + corpAccountID
}

func isFirestoreNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// NewFirestoreClient は store.backend=firestore の場合に使うクライアントを作る
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient: %w", err)
	}
	return client, nil
}

// --- CorporateUser ---

type firestoreCorporateUserRepository struct {
	client *firestore.Client
}

func NewFirestoreCorporateUserRepository(client *firestore.Client) CorporateUserRepository {
	return &firestoreCorporateUserRepository{client: client}
}

func (r *firestoreCorporateUserRepository) col() *firestore.CollectionRef {
	return r.client.Collection(collectionCorporateUsers)
}

func (r *firestoreCorporateUserRepository) FindByEmail(ctx context.Context, tenantID, email string) (*model.CorporateUser, error) {
	logger := middleware.GetLogger(ctx)

	iter := r.col().Where("tenantId", "==", tenantID).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		logger.Debug("Corporate user not found by email", "tenant_id", tenantID, "email", email)
		return nil, model.ErrNotFound
	}
	if err != nil {
		logger.Error("Error querying corporate user by email", "error", err, "tenant_id", tenantID, "email", email)
		return nil, fmt.Errorf("firestoreCorporateUserRepository.FindByEmail: %w", err)
	}

	var user model.CorporateUser
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("firestoreCorporateUserRepository.FindByEmail: decode: %w", err)
	}
	return &user, nil
}

func (r *firestoreCorporateUserRepository) FindByID(ctx context.Context, tenantID, corpAccountID, userID string) (*model.CorporateUser, error) {
	doc, err := r.col().Doc(userDocID(tenantID, corpAccountID, userID)).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error getting corporate user", "error", err, "tenant_id", tenantID, "user_id", userID)
		return nil, fmt.Errorf("firestoreCorporateUserRepository.FindByID: %w", err)
	}

	var user model.CorporateUser
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("firestoreCorporateUserRepository.FindByID: decode: %w", err)
	}
	return &user, nil
}

func (r *firestoreCorporateUserRepository) UpdateLastLogin(ctx context.Context, tenantID, corpAccountID, userID string, at time.Time) error {
	_, err := r.col().Doc(userDocID(tenantID, corpAccountID, userID)).Update(ctx, []firestore.Update{
		{Path: "lastLogin", Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if isFirestoreNotFound(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("firestoreCorporateUserRepository.UpdateLastLogin: %w", err)
	}
	return nil
}

func (r *firestoreCorporateUserRepository) SetPassword(ctx context.Context, tenantID, corpAccountID, userID, passwordHash string, at time.Time) error {
	_, err := r.col().Doc(userDocID(tenantID, corpAccountID, userID)).Update(ctx, []firestore.Update{
		{Path: "passwordHash", Value: passwordHash},
		{Path: "passwordSetAt", Value: at},
		{Path: "lastLogin", Value: at},
		{Path: "status", Value: string(model.UserStatusActive)},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		if isFirestoreNotFound(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("firestoreCorporateUserRepository.SetPassword: %w", err)
	}
	return nil
}

// --- CorporateAccount ---

type firestoreCorporateAccountRepository struct {
	client *firestore.Client
}

func NewFirestoreCorporateAccountRepository(client *firestore.Client) CorporateAccountRepository {
	return &firestoreCorporateAccountRepository{client: client}
}

func (r *firestoreCorporateAccountRepository) FindByID(ctx context.Context, tenantID, corpAccountID string) (*model.CorporateAccount, error) {
	doc, err := r.client.Collection(collectionCorporateAccounts).Doc(accountDocID(tenantID, corpAccountID)).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error getting corporate account", "error", err, "tenant_id", tenantID, "corp_account_id", corpAccountID)
		return nil, fmt.Errorf("firestoreCorporateAccountRepository.FindByID: %w", err)
	}

	var account model.CorporateAccount
	if err := doc.DataTo(&account); err != nil {
		return nil, fmt.Errorf("firestoreCorporateAccountRepository.FindByID: decode: %w", err)
	}
	return &account, nil
}

// --- MagicLinkToken ---

type firestoreMagicLinkTokenRepository struct {
	client *firestore.Client
}

func NewFirestoreMagicLinkTokenRepository(client *firestore.Client) MagicLinkTokenRepository {
	return &firestoreMagicLinkTokenRepository{client: client}
}

func (r *firestoreMagicLinkTokenRepository) col() *firestore.CollectionRef {
	return r.client.Collection(collectionMagicLinkTokens)
}

func (r *firestoreMagicLinkTokenRepository) Create(ctx context.Context, token *model.MagicLinkToken) error {
	// Create は既存ドキュメントがあれば AlreadyExists で失敗する
	if _, err := r.col().Doc(token.Token).Create(ctx, token); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return model.ErrConflict
		}
		middleware.GetLogger(ctx).Error("Failed to create magic link token", "error", err, "tenant_id", token.TenantID)
		return fmt.Errorf("firestoreMagicLinkTokenRepository.Create: %w", err)
	}
	return nil
}

func (r *firestoreMagicLinkTokenRepository) FindByToken(ctx context.Context, tenantID, tokenStr string) (*model.MagicLinkToken, error) {
	doc, err := r.col().Doc(tokenStr).Get(ctx)
	if err != nil {
		if isFirestoreNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("firestoreMagicLinkTokenRepository.FindByToken: %w", err)
	}

	var token model.MagicLinkToken
	if err := doc.DataTo(&token); err != nil {
		return nil, fmt.Errorf("firestoreMagicLinkTokenRepository.FindByToken: decode: %w", err)
	}
	// 別テナントのトークンは存在しないものとして扱う
	if token.TenantID != tenantID {
		return nil, model.ErrNotFound
	}
	return &token, nil
}

// MarkUsed はトランザクション内で used を確認してから更新する
func (r *firestoreMagicLinkTokenRepository) MarkUsed(ctx context.Context, tenantID, tokenStr string, at time.Time) error {
	ref := r.col().Doc(tokenStr)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if isFirestoreNotFound(err) {
				return model.ErrConditionFailed
			}
			return err
		}
		var token model.MagicLinkToken
		if err := doc.DataTo(&token); err != nil {
			return err
		}
		if token.TenantID != tenantID || token.Used {
			return model.ErrConditionFailed
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "used", Value: true},
			{Path: "usedAt", Value: at},
		})
	})
	if err != nil {
		if errors.Is(err, model.ErrConditionFailed) {
			return model.ErrConditionFailed
		}
		middleware.GetLogger(ctx).Error("Failed to mark magic link token used", "error", err, "token_prefix", model.TokenPrefix(tokenStr))
		return fmt.Errorf("firestoreMagicLinkTokenRepository.MarkUsed: %w", err)
	}
	return nil
}

func (r *firestoreMagicLinkTokenRepository) CountIssuedSince(ctx context.Context, tenantID, email string, since time.Time) (int64, error) {
	iter := r.col().
		Where("tenantId", "==", tenantID).
		Where("email", "==", email).
		Where("createdAt", ">=", since).
		Select().
		Documents(ctx)
	defer iter.Stop()

	var n int64
	for {
		_, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("firestoreMagicLinkTokenRepository.CountIssuedSince: %w", err)
		}
		n++
	}
	return n, nil
}

// DeleteExpired は TTL ポリシーによる削除を待たずに期限切れトークンを消す
func (r *firestoreMagicLinkTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	iter := r.col().Where("ttlEpochSeconds", "<", now.Unix()).Select().Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	var n int64
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			bw.End()
			return n, fmt.Errorf("firestoreMagicLinkTokenRepository.DeleteExpired: %w", err)
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return n, fmt.Errorf("firestoreMagicLinkTokenRepository.DeleteExpired: %w", err)
		}
		n++
	}
	bw.End()
	return n, nil
}
