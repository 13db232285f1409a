package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpyrsa/facturador/internal/auth"
	"github.com/jpyrsa/facturador/internal/model"
	"github.com/jpyrsa/facturador/internal/repository"
	"github.com/jpyrsa/facturador/internal/security"
)

// MetricsRecorder は登録完了のメトリクスを記録するインターフェース。
type MetricsRecorder interface {
	RecordRegistration()
}

// Request は登録リクエストを表す。
type Request struct {
	GivenName            string
	PaternalSurname      string
	MaternalSurname      string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Service はアカウント登録フローを実行する。
type Service struct {
	gateway   auth.CredentialGateway
	userRepo  repository.UserRepository
	sanitizer security.TextSanitizer
	metrics   MetricsRecorder
	logger    *slog.Logger
}

// NewService は登録サービスを生成する。
func NewService(
	gateway auth.CredentialGateway,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizer,
	metrics MetricsRecorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		gateway:   gateway,
		userRepo:  userRepo,
		sanitizer: sanitizer,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register は新規アカウントを登録する。
// ローカル検証（必須項目→パスワード一致→長さ→複雑性）を全て通過するまで
// ゲートウェイは呼ばれない。検証の失敗は最初の違反で打ち切る。
// アカウント作成→プロファイル保存→確認メール送信は厳密に逐次実行する。
func (s *Service) Register(ctx context.Context, req Request) error {
	if req.GivenName == "" || req.Email == "" || req.Password == "" {
		return model.NewEmptyRequiredFieldError()
	}
	if req.Password != req.PasswordConfirmation {
		return model.NewPasswordMismatchError()
	}
	if apiErr := ValidatePassword(req.Password); apiErr != nil {
		return apiErr
	}

	info, err := s.gateway.CreateAccount(ctx, req.Email, req.Password)
	if err != nil {
		var gwErr *auth.GatewayError
		if errors.As(err, &gwErr) {
			return mapGatewayError(gwErr)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:              info.ID,
		GivenName:       s.sanitizer.Sanitize(req.GivenName),
		PaternalSurname: s.sanitizer.Sanitize(req.PaternalSurname),
		MaternalSurname: s.sanitizer.Sanitize(req.MaternalSurname),
		Email:           info.Email,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	if err := s.gateway.SendVerificationEmail(ctx, info.ID); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	s.logger.Info("user registered", slog.String("user_id", info.ID))
	return nil
}

// mapGatewayError はゲートウェイの理由コードをユーザー向けエラーに対応付ける。
func mapGatewayError(err *auth.GatewayError) *model.APIError {
	switch err.Reason {
	case auth.ReasonEmailInUse:
		return model.NewEmailInUseError()
	case auth.ReasonInvalidEmail:
		return model.NewInvalidEmailError()
	case auth.ReasonWeakPassword:
		return model.NewWeakPasswordError()
	default:
		return model.NewUnspecifiedError("")
	}
}
