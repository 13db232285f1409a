// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/jpyrsa/facturador/internal/model"
)

// CredentialRepository は認証資格情報の永続化インターフェース。
// クレデンシャルゲートウェイの実装のみが使用する。
type CredentialRepository interface {
	// FindByID は指定IDの資格情報を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Credential, error)

	// FindByEmail はメールアドレスで資格情報を検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Credential, error)

	// Create は資格情報を作成する。メールアドレス重複時は一意制約違反を返す。
	Create(ctx context.Context, cred *model.Credential) error

	// UpdatePasswordHash はパスワードハッシュを更新する。
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	// MarkEmailVerified はメールアドレスを確認済みに更新する。
	MarkEmailVerified(ctx context.Context, id string) error
}

// UserRepository はユーザープロファイルの永続化インターフェース。
// 仕様上のプロファイルストアに相当し、アカウントIDをキーとする。
type UserRepository interface {
	// FindByID は指定IDのプロファイルを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はプロファイルを作成または上書きする。
	Upsert(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// AuthTokenRepository はメール確認・パスワード再設定トークンの永続化インターフェース。
type AuthTokenRepository interface {
	// Create はトークンを作成する。
	Create(ctx context.Context, token *model.AuthToken) error

	// Consume は有効なトークンを取得し、同時に削除する（使い捨て保証）。
	// 見つからないか期限切れの場合はnilを返す。
	Consume(ctx context.Context, token string, purpose model.TokenPurpose) (*model.AuthToken, error)
}

// TicketRepository はチケット参照データの読み取りインターフェース。
// 参照データはマイグレーションで投入され、このサービスからは変更されない。
type TicketRepository interface {
	// ListAll は全チケット参照レコードを返す。
	ListAll(ctx context.Context) ([]model.TicketRecord, error)
}

// InvoiceRepository は請求書レコードの永続化インターフェース。
type InvoiceRepository interface {
	// Create は請求書レコードを作成する。
	Create(ctx context.Context, invoice *model.Invoice) error

	// FindByID は指定IDの請求書を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Invoice, error)

	// ListByUserID はユーザーの請求書一覧を発行日時の降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Invoice, error)
}
