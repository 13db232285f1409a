package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ（ユーザー向け、スペイン語）
	Category string // カテゴリ: auth, validation, ticket, invoice, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	// ローカル検証エラー（外部呼び出し前に検出され、リトライされない）
	ErrCodeEmptyRequiredField        = "EMPTY_REQUIRED_FIELD"
	ErrCodePasswordMismatch          = "PASSWORD_MISMATCH"
	ErrCodePasswordTooShort          = "PASSWORD_TOO_SHORT"
	ErrCodePasswordMissingComplexity = "PASSWORD_MISSING_COMPLEXITY"

	// ゲートウェイエラー（理由コードをそのままユーザー向けメッセージに対応させる）
	ErrCodeAccountNotFound  = "ACCOUNT_NOT_FOUND"
	ErrCodeInvalidEmail     = "INVALID_EMAIL"
	ErrCodeWrongPassword    = "WRONG_PASSWORD"
	ErrCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	ErrCodeEmailInUse       = "EMAIL_ALREADY_IN_USE"
	ErrCodeWeakPassword     = "WEAK_PASSWORD"
	ErrCodeInvalidToken     = "INVALID_TOKEN"

	// チケット・請求書
	ErrCodeTicketMismatch  = "TICKET_MISMATCH"
	ErrCodeInvoiceNotFound = "INVOICE_NOT_FOUND"

	ErrCodeUserNotFound = "USER_NOT_FOUND"
)

// NewEmptyRequiredFieldError は必須項目未入力エラーを生成する。
func NewEmptyRequiredFieldError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyRequiredField,
		Message:  "Por favor, complete todos los campos.",
		Category: "validation",
		Action:   "Ingresa nombre, correo electrónico y contraseña.",
	}
}

// NewPasswordMismatchError はパスワード不一致エラーを生成する。
func NewPasswordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMismatch,
		Message:  "Las contraseñas no coinciden.",
		Category: "validation",
		Action:   "Verifica que ambas contraseñas sean iguales.",
	}
}

// NewPasswordTooShortError はパスワード長不足エラーを生成する。
func NewPasswordTooShortError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordTooShort,
		Message:  "La contraseña debe tener al menos 8 caracteres.",
		Category: "validation",
		Action:   "Elige una contraseña de 8 caracteres o más.",
	}
}

// NewPasswordMissingComplexityError はパスワード複雑性不足エラーを生成する。
func NewPasswordMissingComplexityError() *APIError {
	return &APIError{
		Code:     ErrCodePasswordMissingComplexity,
		Message:  "La contraseña debe contener al menos 8 caracteres, incluyendo letras, números y al menos un carácter especial como !@#$%^&*().",
		Category: "validation",
		Action:   "Agrega letras, números y un carácter especial a tu contraseña.",
	}
}

// NewAccountNotFoundError はアカウント未登録エラーを生成する。
// 対処方法として新規登録を提案する。
func NewAccountNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  "No tienes una cuenta. ¿Por qué no te registras?",
		Category: "auth",
		Action:   "Regístrate para ahorrar tiempo en tus facturas.",
	}
}

// NewInvalidEmailError は無効なメールアドレスエラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "El correo electrónico proporcionado no es válido.",
		Category: "validation",
		Action:   "Verifica el formato del correo electrónico.",
	}
}

// NewWrongPasswordError はパスワード誤りエラーを生成する。
func NewWrongPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWrongPassword,
		Message:  "La contraseña proporcionada es incorrecta.",
		Category: "auth",
		Action:   "Verifica tu contraseña e inténtalo de nuevo.",
	}
}

// NewEmailNotVerifiedError はメール未確認エラーを生成する。
// 未確認アカウントは正しい資格情報でもログインを許可しない。
func NewEmailNotVerifiedError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailNotVerified,
		Message:  "Debes verificar tu correo electrónico antes de iniciar sesión.",
		Category: "auth",
		Action:   "Revisa tu bandeja de entrada y sigue el enlace de verificación.",
	}
}

// NewEmailInUseError はメールアドレス重複エラーを生成する。
func NewEmailInUseError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailInUse,
		Message:  "El correo electrónico ya está en uso. Por favor, utiliza otro correo electrónico.",
		Category: "auth",
		Action:   "Inicia sesión o utiliza otro correo electrónico.",
	}
}

// NewWeakPasswordError はパスワード強度不足エラー（ゲートウェイ由来）を生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "La contraseña es demasiado débil.",
		Category: "auth",
		Action:   "Elige una contraseña más segura.",
	}
}

// NewInvalidTokenError は無効または期限切れトークンエラーを生成する。
func NewInvalidTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidToken,
		Message:  "El enlace no es válido o ha expirado.",
		Category: "auth",
		Action:   "Solicita un nuevo correo y vuelve a intentarlo.",
	}
}

// NewTicketMismatchError はチケット不一致エラーを生成する。
// 回数制限なしで再入力できる。
func NewTicketMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeTicketMismatch,
		Message:  "Los datos del ticket no son válidos.",
		Category: "ticket",
		Action:   "Verifica la fecha, el folio, el ID de venta y el total de tu ticket.",
	}
}

// NewInvoiceNotFoundError は請求書未検出エラーを生成する。
func NewInvoiceNotFoundError(invoiceID string) *APIError {
	return &APIError{
		Code:     ErrCodeInvoiceNotFound,
		Message:  fmt.Sprintf("No se encontró la factura: %s", invoiceID),
		Category: "invoice",
		Action:   "Verifica el identificador de la factura.",
	}
}

// NewUserNotFoundError はユーザープロファイル未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "No se encontró el usuario.",
		Category: "auth",
		Action:   "Inicia sesión de nuevo.",
	}
}

// NewUnspecifiedError は原因未分類の汎用エラーを生成する。
func NewUnspecifiedError(message string) *APIError {
	if message == "" {
		message = "Ocurrió un error al procesar la solicitud."
	}
	return &APIError{
		Code:     "UNSPECIFIED",
		Message:  message,
		Category: "system",
		Action:   "Por favor, inténtalo de nuevo.",
	}
}
