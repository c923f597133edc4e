package model

import (
	"time"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleBooker UserRole = "booker"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusRemoved   UserStatus = "removed"
)

// CorporateUser は法人アカウントに所属するユーザーです。
// email はテナント内で一意 (uq_corporate_user_email)。
type CorporateUser struct {
	TenantID      string     `gorm:"type:varchar(64);primaryKey;uniqueIndex:uq_corporate_user_email,priority:1" firestore:"tenantId" json:"tenantId"`
	CorpAccountID string     `gorm:"type:varchar(64);primaryKey" firestore:"corpAccountId" json:"corpAccountId"`
	UserID        string     `gorm:"type:varchar(64);primaryKey" firestore:"userId" json:"userId"`
	Email         string     `gorm:"type:varchar(320);not null;uniqueIndex:uq_corporate_user_email,priority:2" firestore:"email" json:"email"`
	Name          string     `gorm:"not null" firestore:"name" json:"name"`
	Role          UserRole   `gorm:"type:varchar(16);not null" firestore:"role" json:"role"`
	Status        UserStatus `gorm:"type:varchar(16);not null;default:pending" firestore:"status" json:"status"`
	PasswordHash  *string    `gorm:"default:null" firestore:"passwordHash,omitempty" json:"-"`
	PasswordSetAt *time.Time `firestore:"passwordSetAt,omitempty" json:"passwordSetAt,omitempty"`
	LastLogin     *time.Time `firestore:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

func (CorporateUser) TableName() string {
	return "corporate_users"
}

// HasPassword はパスワード設定済み (オンボーディング完了) かどうか
func (u *CorporateUser) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *CorporateUser) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanUseLoginLink はログインリンクを受け取れる状態か。
// pending はオンボーディング前なので許可、suspended / removed は不可。
func (u *CorporateUser) CanUseLoginLink() bool {
	return u.Status == UserStatusActive || u.Status == UserStatusPending
}
