// Package registration はアカウント登録フローを提供する。
package registration

import (
	"strings"

	"github.com/jpyrsa/facturador/internal/model"
)

// passwordMinLength は登録時パスワードの最低文字数
const passwordMinLength = 8

// passwordSymbols はパスワードに許可される記号の集合
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidatePassword はパスワードポリシーを検証する。
// 8文字以上で、英字・数字・記号をそれぞれ1文字以上含み、
// それ以外の文字を含まないこと。違反時は該当するエラーを返す。
func ValidatePassword(password string) *model.APIError {
	if len(password) < passwordMinLength {
		return model.NewPasswordTooShortError()
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			// 許可文字集合外の文字は複雑性違反として扱う
			return model.NewPasswordMissingComplexityError()
		}
	}

	if !hasLetter || !hasDigit || !hasSymbol {
		return model.NewPasswordMissingComplexityError()
	}
	return nil
}
