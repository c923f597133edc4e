//go:generate mockery --name SecretProvider --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go_corporate_auth/internal/config"
)

var ErrEmptySecret = errors.New("secret provider: secret is empty")

// SecretProvider は JWT 署名鍵を提供する。
// 値はプロセス内でキャッシュされ、Invalidate で次回 Get 時に再取得される。
// ただし直近の取得から MinSecretRefreshInterval 以内の Invalidate は無視する。
type SecretProvider interface {
	Get(ctx context.Context) ([]byte, error)
	Invalidate()
}

// SecretSource は外部のシークレットストアから鍵を読み出す
type SecretSource interface {
	Fetch(ctx context.Context) (string, error)
}

// MinSecretRefreshInterval は外部ストアへの再取得の最短間隔
const MinSecretRefreshInterval = time.Minute

type cachedSecretProvider struct {
	source     SecretSource
	minRefresh time.Duration
	now        func() time.Time

	mu        sync.Mutex
	secret    []byte
	fetchedAt time.Time
}

func NewCachedSecretProvider(source SecretSource) SecretProvider {
	return newCachedSecretProvider(source, MinSecretRefreshInterval, time.Now)
}

func newCachedSecretProvider(source SecretSource, minRefresh time.Duration, now func() time.Time) *cachedSecretProvider {
	return &cachedSecretProvider{source: source, minRefresh: minRefresh, now: now}
}

func (p *cachedSecretProvider) Get(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.secret != nil {
		return p.secret, nil
	}

	v, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("secret provider: fetch: %w", err)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, ErrEmptySecret
	}
	p.secret = []byte(v)
	p.fetchedAt = p.now()
	return p.secret, nil
}

func (p *cachedSecretProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 不正な署名のトークンを送り続けられても外部ストアを叩かない
	if p.secret != nil && p.now().Sub(p.fetchedAt) < p.minRefresh {
		return
	}
	p.secret = nil
}

// StaticSecretSource は設定ファイル / 環境変数の値をそのまま返す
type StaticSecretSource string

func (s StaticSecretSource) Fetch(context.Context) (string, error) {
	return string(s), nil
}

// NewSecretProvider は secrets.provider に応じたソースでプロバイダを組み立てる。
// 戻り値の close はクライアントを持つソースのために呼び出し側が defer する。
func NewSecretProvider(ctx context.Context, cfg *config.Config) (SecretProvider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Secrets.Provider {
	case "static", "":
		if !cfg.IsProduction() && cfg.JWT.SecretKey != "" {
			slog.Warn("Using static JWT secret from config; do not use in production")
		}
		return NewCachedSecretProvider(StaticSecretSource(cfg.JWT.SecretKey)), noop, nil
	case "gcp":
		src, err := NewGCPSecretSource(ctx, cfg.Secrets.GCPProjectID, cfg.JWT.SecretName)
		if err != nil {
			return nil, noop, err
		}
		return NewCachedSecretProvider(src), src.Close, nil
	case "aws":
		src, err := NewAWSSecretSource(ctx, cfg.Secrets.AWSRegion, cfg.JWT.SecretName)
		if err != nil {
			return nil, noop, err
		}
		return NewCachedSecretProvider(src), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown secrets provider: %s", cfg.Secrets.Provider)
	}
}
