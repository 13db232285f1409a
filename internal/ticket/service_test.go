package ticket

import (
	"context"
	"errors"
	"testing"

	"github.com/jpyrsa/facturador/internal/model"
)

// --- モック定義 ---

type mockTicketRepo struct {
	listAllFn func(ctx context.Context) ([]model.TicketRecord, error)
}

func (m *mockTicketRepo) ListAll(ctx context.Context) ([]model.TicketRecord, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockMetrics struct {
	validations []bool
}

func (m *mockMetrics) RecordTicketValidation(valid bool) {
	m.validations = append(m.validations, valid)
}

// --- テスト ---

func TestService_Validate_Match_RecordsMetric(t *testing.T) {
	repo := &mockTicketRepo{
		listAllFn: func(ctx context.Context) ([]model.TicketRecord, error) {
			return referenceRecords(), nil
		},
	}
	metrics := &mockMetrics{}
	svc := NewService(repo, metrics)

	valid, err := svc.Validate(context.Background(), model.TicketClaim{
		SaleDate:  "2026-08-15",
		SaleFolio: "F-001234",
		SaleID:    "S-98765",
		Total:     "500.00",
	})
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !valid {
		t.Error("valid = false, want true")
	}
	if len(metrics.validations) != 1 || !metrics.validations[0] {
		t.Errorf("recorded validations = %v, want [true]", metrics.validations)
	}
}

func TestService_Validate_Mismatch_ReturnsFalseNotError(t *testing.T) {
	repo := &mockTicketRepo{
		listAllFn: func(ctx context.Context) ([]model.TicketRecord, error) {
			return referenceRecords(), nil
		},
	}
	metrics := &mockMetrics{}
	svc := NewService(repo, metrics)

	valid, err := svc.Validate(context.Background(), model.TicketClaim{
		SaleDate:  "2026-08-15",
		SaleFolio: "F-001234",
		SaleID:    "S-98765",
		Total:     "999.99",
	})
	if err != nil {
		t.Fatalf("mismatch must not be an error, got: %v", err)
	}
	if valid {
		t.Error("valid = true, want false")
	}
	if len(metrics.validations) != 1 || metrics.validations[0] {
		t.Errorf("recorded validations = %v, want [false]", metrics.validations)
	}
}

func TestService_Validate_RepoFailure_ReturnsError(t *testing.T) {
	repo := &mockTicketRepo{
		listAllFn: func(ctx context.Context) ([]model.TicketRecord, error) {
			return nil, errors.New("db unavailable")
		},
	}
	metrics := &mockMetrics{}
	svc := NewService(repo, metrics)

	_, err := svc.Validate(context.Background(), model.TicketClaim{})
	if err == nil {
		t.Fatal("expected error when repository fails")
	}
	if len(metrics.validations) != 0 {
		t.Error("no metric should be recorded on repository failure")
	}
}
