// Package model はドメインモデルを定義する。
package model

import "time"

// Credential は認証資格情報を表す。
// パスワードハッシュと確認済みフラグはクレデンシャルゲートウェイのみが扱う。
type Credential struct {
	ID            string
	Email         string
	PasswordHash  string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// User はプロファイルストアに保存されるユーザープロファイルを表す。
// IDはクレデンシャルゲートウェイが発行したアカウントIDと同一。
type User struct {
	ID              string
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	Email           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DisplayName は表示用のフルネームを返す。
// プロファイルが未入力の場合はメールアドレスにフォールバックする。
func (u *User) DisplayName() string {
	if u.GivenName == "" {
		return u.Email
	}
	name := u.GivenName
	if u.PaternalSurname != "" {
		name += " " + u.PaternalSurname
	}
	if u.MaternalSurname != "" {
		name += " " + u.MaternalSurname
	}
	return name
}

// Session はユーザーのログインセッションを表す。
// 有効なセッション行が存在することがAuthenticated状態に対応する。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenPurpose は認証トークンの用途を表す。
type TokenPurpose string

const (
	// TokenPurposeVerifyEmail はメールアドレス確認用トークン。
	TokenPurposeVerifyEmail TokenPurpose = "verify_email"
	// TokenPurposePasswordReset はパスワード再設定用トークン。
	TokenPurposePasswordReset TokenPurpose = "password_reset"
)

// AuthToken はメール確認・パスワード再設定用の使い捨てトークンを表す。
type AuthToken struct {
	Token        string
	CredentialID string
	Purpose      TokenPurpose
	ExpiresAt    time.Time
	CreatedAt    time.Time
}
