// Package invoice は請求書の発行と照会を提供する。
package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jpyrsa/facturador/internal/model"
	"github.com/jpyrsa/facturador/internal/repository"
	"github.com/jpyrsa/facturador/internal/security"
	"github.com/jpyrsa/facturador/internal/ticket"
)

// MetricsRecorder は請求書発行のメトリクスを記録するインターフェース。
type MetricsRecorder interface {
	RecordInvoiceIssued()
}

// Request は請求書発行リクエストを表す。
type Request struct {
	Claim        model.TicketClaim
	RFC          string
	BusinessName string
	Email        string
}

// Service は請求書サービス。
type Service struct {
	invoiceRepo repository.InvoiceRepository
	tickets     *ticket.Service
	sanitizer   security.TextSanitizer
	metrics     MetricsRecorder
	logger      *slog.Logger
}

// NewService は請求書サービスを生成する。
func NewService(
	invoiceRepo repository.InvoiceRepository,
	tickets *ticket.Service,
	sanitizer security.TextSanitizer,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		invoiceRepo: invoiceRepo,
		tickets:     tickets,
		sanitizer:   sanitizer,
		metrics:     metrics,
		logger:      logger,
	}
}

// Issue はチケットを再照合した上で請求書を発行する。
// 照合はクライアント側の結果を信用せず発行時に必ずやり直す。
func (s *Service) Issue(ctx context.Context, userID string, req Request) (*model.Invoice, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if req.RFC == "" || req.Email == "" {
		return nil, model.NewEmptyRequiredFieldError()
	}

	valid, err := s.tickets.Validate(ctx, req.Claim)
	if err != nil {
		return nil, fmt.Errorf("failed to validate ticket: %w", err)
	}
	if !valid {
		return nil, model.NewTicketMismatchError()
	}

	inv := &model.Invoice{
		ID:           uuid.New().String(),
		UserID:       userID,
		FolioFiscal:  uuid.New().String(),
		SaleDate:     req.Claim.SaleDate,
		SaleFolio:    req.Claim.SaleFolio,
		SaleID:       req.Claim.SaleID,
		Total:        req.Claim.Total,
		RFC:          s.sanitizer.Sanitize(req.RFC),
		BusinessName: s.sanitizer.Sanitize(req.BusinessName),
		Email:        req.Email,
		CreatedAt:    time.Now(),
	}
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordInvoiceIssued()
	}
	s.logger.Info("invoice issued",
		slog.String("invoice_id", inv.ID),
		slog.String("user_id", userID))
	return inv, nil
}

// ListByUser はユーザーの請求書一覧を発行日時の降順で返す。
// 再発行（reimpresión）の画面はこの一覧から請求書を選択する。
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Invoice, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	invoices, err := s.invoiceRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

// Get は請求書を1件取得する。他ユーザーの請求書は存在しないものとして扱う。
func (s *Service) Get(ctx context.Context, userID, invoiceID string) (*model.Invoice, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	if inv == nil || inv.UserID != userID {
		return nil, model.NewInvoiceNotFoundError(invoiceID)
	}
	return inv, nil
}
