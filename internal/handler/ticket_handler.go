package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jpyrsa/facturador/internal/model"
)

// TicketServiceInterface はチケットハンドラーが必要とするサービスインターフェース。
type TicketServiceInterface interface {
	Validate(ctx context.Context, claim model.TicketClaim) (bool, error)
}

// TicketHandler はチケット照合のHTTPハンドラー。
type TicketHandler struct {
	service TicketServiceInterface
}

// NewTicketHandler はTicketHandlerを生成する。
func NewTicketHandler(service TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: service}
}

// ticketClaimRequest はチケット照合リクエストのJSONボディ。
// 全項目は入力文字列のまま比較されるため変換しない。
type ticketClaimRequest struct {
	SaleDate  string `json:"sale_date"`
	SaleFolio string `json:"sale_folio"`
	SaleID    string `json:"sale_id"`
	Total     string `json:"total"`
}

func (r ticketClaimRequest) toClaim() model.TicketClaim {
	return model.TicketClaim{
		SaleDate:  r.SaleDate,
		SaleFolio: r.SaleFolio,
		SaleID:    r.SaleID,
		Total:     r.Total,
	}
}

// Validate は申告されたチケットデータを参照データと照合する。
// 不一致は200で valid=false を返し、回数制限なしで再入力できる。
// POST /api/tickets/validate
func (h *TicketHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ticketClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptyRequiredFieldError())
		return
	}

	valid, err := h.service.Validate(r.Context(), req.toClaim())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"valid": valid})
}
