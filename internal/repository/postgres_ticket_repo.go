package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpyrsa/facturador/internal/model"
)

// PostgresTicketRepo はPostgreSQLを使用したチケット参照データリポジトリ。
// レコードはマイグレーションで投入され、このリポジトリは読み取り専用。
type PostgresTicketRepo struct {
	db *sql.DB
}

// NewPostgresTicketRepo はPostgresTicketRepoを生成する。
func NewPostgresTicketRepo(db *sql.DB) *PostgresTicketRepo {
	return &PostgresTicketRepo{db: db}
}

// ListAll は全チケット参照レコードを返す。
func (r *PostgresTicketRepo) ListAll(ctx context.Context) ([]model.TicketRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sale_date, sale_folio, sale_id, total FROM tickets`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var records []model.TicketRecord
	for rows.Next() {
		var rec model.TicketRecord
		if err := rows.Scan(&rec.ID, &rec.SaleDate, &rec.SaleFolio, &rec.SaleID, &rec.Total); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return records, nil
}

// compile-time interface check
var _ TicketRepository = (*PostgresTicketRepo)(nil)
