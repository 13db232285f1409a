// Package security は入力テキストの無害化を提供する。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer は自由入力テキストを無害化するインターフェース。
// プロファイルの氏名や請求書の会社名など、後で画面に表示される値に適用する。
type TextSanitizer interface {
	// Sanitize はHTMLタグを全て除去し、前後の空白を取り除く。
	Sanitize(input string) string
}

type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はタグを一切許可しないTextSanitizerを生成する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize はHTMLタグを全て除去し、前後の空白を取り除く。
func (s *textSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(s.policy.Sanitize(input))
}

// compile-time interface check
var _ TextSanitizer = (*textSanitizer)(nil)
