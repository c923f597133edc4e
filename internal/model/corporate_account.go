package model

import "time"

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// CorporateAccount は法人顧客です。このサービスからは読み取り専用。
type CorporateAccount struct {
	TenantID      string        `gorm:"type:varchar(64);primaryKey" firestore:"tenantId" json:"tenantId"`
	CorpAccountID string        `gorm:"type:varchar(64);primaryKey" firestore:"corpAccountId" json:"corpAccountId"`
	CompanyName   string        `gorm:"not null" firestore:"companyName" json:"companyName"`
	Status        AccountStatus `gorm:"type:varchar(16);not null;default:active" firestore:"status" json:"status"`
	CreatedAt     time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

func (CorporateAccount) TableName() string {
	return "corporate_accounts"
}

func (a *CorporateAccount) IsActive() bool {
	return a.Status == AccountStatusActive
}
