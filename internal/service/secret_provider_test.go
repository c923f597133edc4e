package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	values []string
	calls  atomic.Int32
}

func (s *countingSource) Fetch(context.Context) (string, error) {
	n := s.calls.Add(1)
	idx := int(n) - 1
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}
	return s.values[idx], nil
}

type fakeSecretsManager struct {
	out *secretsmanager.GetSecretValueOutput
	err error
	got string
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.got = aws.ToString(in.SecretId)
	return f.out, f.err
}

func TestCachedSecretProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 2回目以降はキャッシュを返す", func(t *testing.T) {
		src := &countingSource{values: []string{"first"}}
		p := NewCachedSecretProvider(src)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := p.Get(ctx)
				assert.NoError(t, err)
				assert.Equal(t, []byte("first"), v)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), src.calls.Load())
	})

	t.Run("正常系: 最短間隔を過ぎた Invalidate 後は再取得する", func(t *testing.T) {
		src := &countingSource{values: []string{"old", "new"}}
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		p := newCachedSecretProvider(src, time.Minute, func() time.Time { return now })

		v, err := p.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "old", string(v))

		now = now.Add(time.Minute)
		p.Invalidate()
		v, err = p.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", string(v))
		assert.Equal(t, int32(2), src.calls.Load())
	})

	t.Run("正常系: 最短間隔内の Invalidate は無視される", func(t *testing.T) {
		src := &countingSource{values: []string{"old", "new"}}
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		p := newCachedSecretProvider(src, time.Minute, func() time.Time { return now })

		_, err := p.Get(ctx)
		require.NoError(t, err)

		now = now.Add(59 * time.Second)
		p.Invalidate()
		v, err := p.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "old", string(v))
		assert.Equal(t, int32(1), src.calls.Load())
	})

	t.Run("異常系: 空の鍵はエラー", func(t *testing.T) {
		p := NewCachedSecretProvider(StaticSecretSource("  "))
		_, err := p.Get(ctx)
		assert.ErrorIs(t, err, ErrEmptySecret)
	})
}

func TestVerifyForgedTokensDoNotRefetchSecret(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Issuer: "corporate-portal-auth-test"}}
	cfg.ApplyDefaults()
	src := &countingSource{values: []string{"real-secret"}}
	svc := NewSessionService(nil, nil, NewCachedSecretProvider(src), cfg, nil)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.SessionClaims{
		Type:     model.SessionTypeCorporate,
		TenantID: "tenant-acme",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.JWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("attacker-secret"))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := svc.Verify(context.Background(), "tenant-acme", "Bearer "+forged)
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, model.CodeSessionInvalid, appErr.Code)
	}
	assert.LessOrEqual(t, src.calls.Load(), int32(2))
}

func TestAWSSecretSource(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: SecretString を返す", func(t *testing.T) {
		fake := &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("s3cr3t")}}
		v, err := newAWSSecretSourceWithClient(fake, "corporate-portal/jwt").Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, "s3cr3t", v)
		assert.Equal(t, "corporate-portal/jwt", fake.got)
	})

	t.Run("異常系: API エラーを返す", func(t *testing.T) {
		fake := &fakeSecretsManager{err: errors.New("access denied")}
		_, err := newAWSSecretSourceWithClient(fake, "x").Fetch(ctx)
		assert.Error(t, err)
	})
}

func TestGCPSecretVersionName(t *testing.T) {
	tests := []struct {
		name, project, secret, want string
		wantErr                     bool
	}{
		{name: "短い名前", project: "my-proj", secret: "jwt-secret", want: "projects/my-proj/secrets/jwt-secret/versions/latest"},
		{name: "スラッシュを含む名前", project: "my-proj", secret: "corporate-portal/jwt", want: "projects/my-proj/secrets/corporate-portal-jwt/versions/latest"},
		{name: "リソース名", secret: "projects/p/secrets/s", want: "projects/p/secrets/s/versions/latest"},
		{name: "バージョン指定済み", secret: "projects/p/secrets/s/versions/3", want: "projects/p/secrets/s/versions/3"},
		{name: "プロジェクト未設定", secret: "jwt", wantErr: true},
		{name: "名前が空", project: "p", secret: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gcpSecretVersionName(tt.project, tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
