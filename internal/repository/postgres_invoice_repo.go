package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpyrsa/facturador/internal/model"
)

// PostgresInvoiceRepo はPostgreSQLを使用した請求書リポジトリ。
type PostgresInvoiceRepo struct {
	db *sql.DB
}

// NewPostgresInvoiceRepo はPostgresInvoiceRepoを生成する。
func NewPostgresInvoiceRepo(db *sql.DB) *PostgresInvoiceRepo {
	return &PostgresInvoiceRepo{db: db}
}

// Create は請求書レコードを作成する。
func (r *PostgresInvoiceRepo) Create(ctx context.Context, invoice *model.Invoice) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, user_id, folio_fiscal, sale_date, sale_folio, sale_id, total, rfc, business_name, email, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		invoice.ID, invoice.UserID, invoice.FolioFiscal, invoice.SaleDate, invoice.SaleFolio,
		invoice.SaleID, invoice.Total, invoice.RFC, invoice.BusinessName, invoice.Email, invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// FindByID は指定IDの請求書を取得する。見つからない場合はnilを返す。
func (r *PostgresInvoiceRepo) FindByID(ctx context.Context, id string) (*model.Invoice, error) {
	invoice := &model.Invoice{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, folio_fiscal, sale_date, sale_folio, sale_id, total, rfc, business_name, email, created_at
		 FROM invoices WHERE id = $1`,
		id,
	).Scan(&invoice.ID, &invoice.UserID, &invoice.FolioFiscal, &invoice.SaleDate, &invoice.SaleFolio,
		&invoice.SaleID, &invoice.Total, &invoice.RFC, &invoice.BusinessName, &invoice.Email, &invoice.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice by ID: %w", err)
	}

	return invoice, nil
}

// ListByUserID はユーザーの請求書一覧を発行日時の降順で返す。
func (r *PostgresInvoiceRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, folio_fiscal, sale_date, sale_folio, sale_id, total, rfc, business_name, email, created_at
		 FROM invoices WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*model.Invoice
	for rows.Next() {
		invoice := &model.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.UserID, &invoice.FolioFiscal, &invoice.SaleDate, &invoice.SaleFolio,
			&invoice.SaleID, &invoice.Total, &invoice.RFC, &invoice.BusinessName, &invoice.Email, &invoice.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}

// compile-time interface check
var _ InvoiceRepository = (*PostgresInvoiceRepo)(nil)
