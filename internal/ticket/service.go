package ticket

import (
	"context"
	"fmt"

	"github.com/jpyrsa/facturador/internal/model"
	"github.com/jpyrsa/facturador/internal/repository"
)

// MetricsRecorder はチケット照合結果のメトリクスを記録するインターフェース。
type MetricsRecorder interface {
	RecordTicketValidation(valid bool)
}

// Service はチケット照合サービス。
type Service struct {
	ticketRepo repository.TicketRepository
	metrics    MetricsRecorder
}

// NewService はチケット照合サービスを生成する。
func NewService(ticketRepo repository.TicketRepository, metrics MetricsRecorder) *Service {
	return &Service{
		ticketRepo: ticketRepo,
		metrics:    metrics,
	}
}

// Validate は申告値を参照データと照合する。
// 不一致は回数制限なしで再試行できるため、エラーではなくfalseを返す。
func (s *Service) Validate(ctx context.Context, claim model.TicketClaim) (bool, error) {
	records, err := s.ticketRepo.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list tickets: %w", err)
	}

	valid := Validate(claim, records)
	if s.metrics != nil {
		s.metrics.RecordTicketValidation(valid)
	}
	return valid, nil
}
