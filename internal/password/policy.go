package password

import (
	"unicode"
	"unicode/utf8"
)

const (
	MinLength = 8
	// MaxBytes は bcrypt が扱える上限
	MaxBytes = 72
)

// Validate はポリシーに違反した最初のルールをエラーとして返す。入力は変更しない。
func Validate(pw string) error {
	// バイト数ではなく文字数で数える
	if utf8.RuneCountInString(pw) < MinLength {
		return ErrTooShort
	}
	if len(pw) > MaxBytes {
		return ErrTooLong
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsLetter(r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return ErrMissingUpper
	case !hasLower:
		return ErrMissingLower
	case !hasDigit:
		return ErrMissingDigit
	case !hasSymbol:
		return ErrMissingSymbol
	}
	return nil
}

// ValidatePair はポリシーと確認用パスワードの一致をまとめて検証する
func ValidatePair(pw, confirm string) error {
	if err := Validate(pw); err != nil {
		return err
	}
	if pw != confirm {
		return ErrMismatch
	}
	return nil
}
