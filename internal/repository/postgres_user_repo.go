package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpyrsa/facturador/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザープロファイルリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのプロファイルを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, given_name, paternal_surname, maternal_surname, email, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.GivenName, &user.PaternalSurname, &user.MaternalSurname, &user.Email, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	return user, nil
}

// Upsert はプロファイルを作成または上書きする。
func (r *PostgresUserRepo) Upsert(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, given_name, paternal_surname, maternal_surname, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   given_name = EXCLUDED.given_name,
		   paternal_surname = EXCLUDED.paternal_surname,
		   maternal_surname = EXCLUDED.maternal_surname,
		   email = EXCLUDED.email,
		   updated_at = EXCLUDED.updated_at`,
		user.ID, user.GivenName, user.PaternalSurname, user.MaternalSurname, user.Email, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
