package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpyrsa/facturador/internal/model"
)

// PostgresAuthTokenRepo はPostgreSQLを使用した認証トークンリポジトリ。
type PostgresAuthTokenRepo struct {
	db *sql.DB
}

// NewPostgresAuthTokenRepo はPostgresAuthTokenRepoを生成する。
func NewPostgresAuthTokenRepo(db *sql.DB) *PostgresAuthTokenRepo {
	return &PostgresAuthTokenRepo{db: db}
}

// Create はトークンを作成する。
func (r *PostgresAuthTokenRepo) Create(ctx context.Context, token *model.AuthToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, credential_id, purpose, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.Token, token.CredentialID, string(token.Purpose), token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}
	return nil
}

// Consume は有効なトークンを取得し、同時に削除する。
// DELETE ... RETURNING により取得と無効化を単一文で行い、二重使用を防ぐ。
// 見つからないか期限切れの場合はnilを返す。
func (r *PostgresAuthTokenRepo) Consume(ctx context.Context, token string, purpose model.TokenPurpose) (*model.AuthToken, error) {
	t := &model.AuthToken{}
	var purposeStr string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM auth_tokens
		 WHERE token = $1 AND purpose = $2 AND expires_at > now()
		 RETURNING token, credential_id, purpose, expires_at, created_at`,
		token, string(purpose),
	).Scan(&t.Token, &t.CredentialID, &purposeStr, &t.ExpiresAt, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume auth token: %w", err)
	}

	t.Purpose = model.TokenPurpose(purposeStr)
	return t, nil
}

// compile-time interface check
var _ AuthTokenRepository = (*PostgresAuthTokenRepo)(nil)
