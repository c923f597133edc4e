package model

type ContextKey string

const (
	TenantIDKey      ContextKey = "tenantID"
	SessionClaimsKey ContextKey = "sessionClaims"
)
