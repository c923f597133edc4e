package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost はコスト未指定・範囲外のときに使う bcrypt コスト
const DefaultCost = 12

// Hasher は bcrypt のコストを保持する
type Hasher struct {
	Cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{Cost: cost}
}

// Hash はパスワードを bcrypt でハッシュ化する。ポリシー検証は呼び出し側で行う。
func (h Hasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Compare は保存済みハッシュと比較する。bcrypt の比較は定数時間。
// 一致すれば (true, nil)、不一致は (false, nil)、ハッシュ自体が壊れている場合はエラー。
func (h Hasher) Compare(hash, pw string) (bool, error) {
	if hash == "" {
		return false, ErrHashUnavailable
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
