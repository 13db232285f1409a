// Package auth はクレデンシャルゲートウェイとセッション管理を提供する。
package auth

import (
	"context"
	"fmt"
)

// GatewayReason はゲートウェイエラーの固定された理由コード。
// 理由ごとにユーザー向けメッセージへ対応付けられる。
type GatewayReason string

const (
	// ReasonAccountNotFound はアカウントが存在しないことを示す。
	ReasonAccountNotFound GatewayReason = "account-not-found"
	// ReasonInvalidEmail はメールアドレスの形式が不正であることを示す。
	ReasonInvalidEmail GatewayReason = "invalid-email"
	// ReasonWrongPassword はパスワードが一致しないことを示す。
	ReasonWrongPassword GatewayReason = "wrong-password"
	// ReasonEmailInUse はメールアドレスが既に登録済みであることを示す。
	ReasonEmailInUse GatewayReason = "email-already-in-use"
	// ReasonWeakPassword はゲートウェイのパスワード強度基準を満たさないことを示す。
	ReasonWeakPassword GatewayReason = "weak-password"
	// ReasonInvalidToken はトークンが無効または期限切れであることを示す。
	ReasonInvalidToken GatewayReason = "invalid-token"
	// ReasonUnspecified は分類外のエラーを示す。
	ReasonUnspecified GatewayReason = "unspecified"
)

// GatewayError はクレデンシャルゲートウェイが返す理由コード付きエラー。
type GatewayError struct {
	Reason GatewayReason
	Err    error
}

// Error はerrorインターフェースを実装する。
func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("gateway error (%s)", e.Reason)
}

// Unwrap はラップされたエラーを返す。
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError は理由コード付きのGatewayErrorを生成する。
func NewGatewayError(reason GatewayReason, err error) *GatewayError {
	return &GatewayError{Reason: reason, Err: err}
}

// AccountInfo はゲートウェイが返すアカウント情報。
type AccountInfo struct {
	ID            string
	Email         string
	EmailVerified bool
}

// CredentialGateway はアカウント作成・認証・確認・パスワード再設定を担う
// 外部アイデンティティプロバイダーのインターフェース。
// 実装を差し替えることでマネージドサービスへの委譲にも対応できる。
type CredentialGateway interface {
	// CreateAccount は新規アカウントを作成する。
	CreateAccount(ctx context.Context, email, password string) (*AccountInfo, error)

	// SignIn は資格情報を検証しアカウント情報を返す。
	// メール未確認でも資格情報が正しければ成功する（確認状態の扱いは呼び出し側の責務）。
	SignIn(ctx context.Context, email, password string) (*AccountInfo, error)

	// SendVerificationEmail は確認メールを送信する。
	SendVerificationEmail(ctx context.Context, accountID string) error

	// SendPasswordReset はパスワード再設定メールを送信する。
	// アカウントの存在を漏らさないよう、未登録メールアドレスでもエラーにしない。
	SendPasswordReset(ctx context.Context, email string) error

	// VerifyEmail は確認トークンを消費しメールアドレスを確認済みにする。
	VerifyEmail(ctx context.Context, token string) error

	// ConfirmPasswordReset は再設定トークンを消費し新しいパスワードを設定する。
	// 対象アカウントのIDを返す。
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (string, error)

	// ChangePassword は現在のパスワードを検証した上で新しいパスワードを設定する。
	ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error
}
