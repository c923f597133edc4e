// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "corporate-portal-auth"
	AppVersion = "1.0.0"
)

// SessionTTL はセッション JWT の有効期間。設定では変えられない。
const SessionTTL = 8 * time.Hour

// デフォルト設定値
const (
	DefaultServerPort    = ":8080"
	DefaultLogLevel      = "info"
	DefaultJWTSecretName = "corporate-portal/jwt-signing-secret"

	DefaultMagicLinkTTL         = 5 * 24 * time.Hour
	DefaultMaxMagicLinksPerHour = 5
	DefaultBcryptCost           = 12
	DefaultIPMaxPerMinute       = 30
)
