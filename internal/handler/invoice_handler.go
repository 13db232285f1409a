package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jpyrsa/facturador/internal/invoice"
	"github.com/jpyrsa/facturador/internal/middleware"
	"github.com/jpyrsa/facturador/internal/model"
)

// InvoiceServiceInterface は請求書ハンドラーが必要とするサービスインターフェース。
type InvoiceServiceInterface interface {
	Issue(ctx context.Context, userID string, req invoice.Request) (*model.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Invoice, error)
	Get(ctx context.Context, userID, invoiceID string) (*model.Invoice, error)
}

// InvoiceHandler は請求書のHTTPハンドラー。
type InvoiceHandler struct {
	service InvoiceServiceInterface
}

// NewInvoiceHandler はInvoiceHandlerを生成する。
func NewInvoiceHandler(service InvoiceServiceInterface) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// invoiceResponse は請求書のJSONレスポンス。
type invoiceResponse struct {
	ID           string `json:"id"`
	FolioFiscal  string `json:"folio_fiscal"`
	SaleDate     string `json:"sale_date"`
	SaleFolio    string `json:"sale_folio"`
	SaleID       string `json:"sale_id"`
	Total        string `json:"total"`
	RFC          string `json:"rfc"`
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	CreatedAt    string `json:"created_at"`
}

func newInvoiceResponse(inv *model.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:           inv.ID,
		FolioFiscal:  inv.FolioFiscal,
		SaleDate:     inv.SaleDate,
		SaleFolio:    inv.SaleFolio,
		SaleID:       inv.SaleID,
		Total:        inv.Total,
		RFC:          inv.RFC,
		BusinessName: inv.BusinessName,
		Email:        inv.Email,
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
}

// Issue はチケットを再照合した上で請求書を発行する。
// POST /api/invoices
func (h *InvoiceHandler) Issue(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteLoginRequiredResponse(w)
		return
	}

	var req struct {
		Ticket       ticketClaimRequest `json:"ticket"`
		RFC          string             `json:"rfc"`
		BusinessName string             `json:"business_name"`
		Email        string             `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptyRequiredFieldError())
		return
	}

	inv, err := h.service.Issue(r.Context(), userID, invoice.Request{
		Claim:        req.Ticket.toClaim(),
		RFC:          req.RFC,
		BusinessName: req.BusinessName,
		Email:        req.Email,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(newInvoiceResponse(inv))
}

// List はログイン中ユーザーの請求書一覧を返す。
// GET /api/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteLoginRequiredResponse(w)
		return
	}

	invoices, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, newInvoiceResponse(inv))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"invoices": responses,
	})
}

// Get は再発行用に請求書を1件取得する。
// GET /api/invoices/{invoiceID}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteLoginRequiredResponse(w)
		return
	}

	invoiceID := chi.URLParam(r, "invoiceID")
	inv, err := h.service.Get(r.Context(), userID, invoiceID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(newInvoiceResponse(inv))
}
