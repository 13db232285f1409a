package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jpyrsa/facturador/internal/model"
)

// apiErrorResponse はAPIエラーレスポンスの統一フォーマット。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse は統一エラーフォーマットでレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "Ocurrió un error interno.",
		Category: "system",
		Action:   "Por favor, inténtalo de nuevo más tarde.",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeEmptyRequiredField,
		model.ErrCodePasswordMismatch,
		model.ErrCodePasswordTooShort,
		model.ErrCodePasswordMissingComplexity,
		model.ErrCodeInvalidEmail:
		return http.StatusBadRequest
	case model.ErrCodeAccountNotFound, model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeWrongPassword:
		return http.StatusUnauthorized
	case model.ErrCodeEmailNotVerified:
		return http.StatusForbidden
	case model.ErrCodeEmailInUse:
		return http.StatusConflict
	case model.ErrCodeWeakPassword:
		return http.StatusBadRequest
	case model.ErrCodeInvalidToken:
		return http.StatusBadRequest
	case model.ErrCodeTicketMismatch:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvoiceNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
