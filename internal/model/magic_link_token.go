package model

import (
	"fmt"
	"time"
)

// TokenPurpose はトークンの発行目的。verify / set-password ではどちらも受け付ける。
type TokenPurpose string

const (
	PurposeLogin         TokenPurpose = "login"
	PurposePasswordReset TokenPurpose = "password_reset"
)

func (p TokenPurpose) Valid() bool {
	return p == PurposeLogin || p == PurposePasswordReset
}

func ParseTokenPurpose(s string) (TokenPurpose, error) {
	p := TokenPurpose(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown token purpose %q", s)
	}
	return p, nil
}

// FirestoreTTLField は Firestore の TTL ポリシーを設定するフィールド。
// TTL ポリシーは Timestamp 型にしか効かないので ttlEpochSeconds ではなく expiresAt を使う。
const FirestoreTTLField = "expiresAt"

// MagicLinkToken は一度だけ使えるログインリンク用トークンです。
// used == false かつ TTLEpochSeconds >= now の間だけ消費できる。
type MagicLinkToken struct {
	Token           string       `gorm:"type:char(64);primaryKey" firestore:"token"`
	TenantID        string       `gorm:"type:varchar(64);not null;index:idx_magic_link_issued,priority:1" firestore:"tenantId"`
	Email           string       `gorm:"type:varchar(320);not null;index:idx_magic_link_issued,priority:2" firestore:"email"`
	CorpAccountID   string       `gorm:"type:varchar(64);not null" firestore:"corpAccountId"`
	UserID          string       `gorm:"type:varchar(64);not null" firestore:"userId"`
	UserRole        UserRole     `gorm:"type:varchar(16)" firestore:"userRole"`
	UserName        string       `firestore:"userName"`
	CompanyName     string       `firestore:"companyName"`
	Purpose         TokenPurpose `gorm:"type:varchar(32);not null;default:login" firestore:"purpose"`
	CreatedAt       time.Time    `gorm:"not null;index:idx_magic_link_issued,priority:3" firestore:"createdAt"`
	ExpiresAt       time.Time    `gorm:"not null" firestore:"expiresAt"`
	TTLEpochSeconds int64        `gorm:"column:ttl_epoch_seconds;not null;index" firestore:"ttlEpochSeconds"`
	Used            bool         `gorm:"not null;default:false" firestore:"used"`
	UsedAt          *time.Time   `firestore:"usedAt,omitempty"`
}

func (MagicLinkToken) TableName() string {
	return "magic_link_tokens"
}

// IsExpired は TTL を過ぎているか。ストア側の TTL 削除は非同期なので必ずアプリ側でも確認する。
func (t *MagicLinkToken) IsExpired(now time.Time) bool {
	return t.TTLEpochSeconds < now.Unix()
}

// TokenPrefix はログ出力用のトークン先頭部分。トークン全体はログに出さない。
func TokenPrefix(token string) string {
	return token[:min(8, len(token))]
}
