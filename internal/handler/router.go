package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jpyrsa/facturador/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	MetricsRecorder   middleware.HTTPMetricsRecorder
	MetricsHandler    http.Handler
	Logger            *slog.Logger

	// 認証・登録
	AuthService         AuthServiceInterface
	AuthConfig          AuthHandlerConfig
	RegistrationService RegistrationServiceInterface

	// チケット・請求書
	TicketService  TicketServiceInterface
	InvoiceService InvoiceServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Metrics → Recovery
//
// 未認証の認証ルート（/auth/*）にはIP単位のレート制限を適用する。
// 認証が必要なルート（/api/*）は Session → RateLimit(General) → CSRF の順に適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	r.Use(middleware.NewRecoveryMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	registrationHandler := NewRegistrationHandler(deps.RegistrationService)
	ticketHandler := NewTicketHandler(deps.TicketService)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceService)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheusメトリクス
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// CSRFトークン取得（認証不要）
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証不要のルート ---
	// 未認証エンドポイントは総当たり対策のためIP単位でレート制限する。
	r.Route("/auth", func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Post("/register", registrationHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Post("/verify-email", authHandler.VerifyEmail)
		r.Post("/password-reset", authHandler.RequestPasswordReset)
		r.Post("/password-reset/confirm", authHandler.ConfirmPasswordReset)

		// パスワード変更のみセッションを要求する。
		// 状態を変更する認証済みルートなのでCSRF検証も適用する。
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
			r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
			r.Post("/change-password", authHandler.ChangePassword)
		})
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// チケット照合
		r.Post("/api/tickets/validate", ticketHandler.Validate)

		// 請求書発行・照会
		r.Route("/api/invoices", func(r chi.Router) {
			r.Post("/", invoiceHandler.Issue)
			r.Get("/", invoiceHandler.List)
			r.Get("/{invoiceID}", invoiceHandler.Get)
		})
	})

	return r
}
