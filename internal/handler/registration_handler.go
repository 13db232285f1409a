package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jpyrsa/facturador/internal/model"
	"github.com/jpyrsa/facturador/internal/registration"
)

// RegistrationServiceInterface は登録ハンドラーが必要とするサービスインターフェース。
type RegistrationServiceInterface interface {
	Register(ctx context.Context, req registration.Request) error
}

// RegistrationHandler はアカウント登録のHTTPハンドラー。
type RegistrationHandler struct {
	service RegistrationServiceInterface
}

// NewRegistrationHandler はRegistrationHandlerを生成する。
func NewRegistrationHandler(service RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Register は新規アカウントを登録する。
// 成功時は確認メールが送信され、メール確認まではログインできない。
// POST /auth/register
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GivenName            string `json:"given_name"`
		PaternalSurname      string `json:"paternal_surname"`
		MaternalSurname      string `json:"maternal_surname"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewEmptyRequiredFieldError())
		return
	}

	err := h.service.Register(r.Context(), registration.Request{
		GivenName:            req.GivenName,
		PaternalSurname:      req.PaternalSurname,
		MaternalSurname:      req.MaternalSurname,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Te hemos enviado un correo de verificación. Confirma tu dirección para iniciar sesión.",
	})
}
