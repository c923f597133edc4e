package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		pw      string
		wantErr error
	}{
		{name: "正常系: すべてのルールを満たす", pw: "Str0ng!1", wantErr: nil},
		{name: "正常系: 日本語記号も記号扱い", pw: "Abcdef1。", wantErr: nil},
		{name: "異常系: 短い", pw: "short1!", wantErr: ErrTooShort},
		{name: "異常系: 大文字なし", pw: "alllowercase1!", wantErr: ErrMissingUpper},
		{name: "異常系: 小文字なし", pw: "ALLUPPERCASE1!", wantErr: ErrMissingLower},
		{name: "異常系: 数字なし", pw: "NoDigitsHere!", wantErr: ErrMissingDigit},
		{name: "異常系: 記号なし", pw: "NoSymbols123", wantErr: ErrMissingSymbol},
		{name: "異常系: 72バイト超", pw: "Aa1!" + strings.Repeat("x", 70), wantErr: ErrTooLong},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.pw)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidatePair(t *testing.T) {
	assert.NoError(t, ValidatePair("Str0ng!1", "Str0ng!1"))
	assert.ErrorIs(t, ValidatePair("Str0ng!1", "Str0ng!2"), ErrMismatch)
	// ポリシー違反が先に報告される
	assert.ErrorIs(t, ValidatePair("short", "other"), ErrTooShort)
}

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("correctPass1!")
	require.NoError(t, err)
	assert.NotEqual(t, "correctPass1!", hash)

	ok, err := h.Compare(hash, "correctPass1!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(hash, "wrongPass1!")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Compare("", "anything")
	assert.ErrorIs(t, err, ErrHashUnavailable)

	_, err = h.Compare("not-a-bcrypt-hash", "anything")
	assert.Error(t, err)
}

func TestNewHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, 12, NewHasher(0).Cost)
	assert.Equal(t, 12, NewHasher(99).Cost)
	assert.Equal(t, 10, NewHasher(10).Cost)
}
