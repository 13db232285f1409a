package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpyrsa/facturador/internal/model"
	"github.com/jpyrsa/facturador/internal/repository"
)

// MetricsRecorder はログイン結果のメトリクスを記録するインターフェース。
type MetricsRecorder interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
}

// ServiceConfig はauthサービスの設定。
type ServiceConfig struct {
	SessionMaxAge time.Duration
}

// Service は認証フローとセッションのライフサイクルを管理する。
type Service struct {
	gateway     CredentialGateway
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	metrics     MetricsRecorder
	config      ServiceConfig
	logger      *slog.Logger
}

// NewService はauthサービスを生成する。
func NewService(
	gateway CredentialGateway,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	metrics MetricsRecorder,
	config ServiceConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		gateway:     gateway,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		metrics:     metrics,
		config:      config,
		logger:      logger,
	}
}

// SignIn は資格情報を検証しセッションを作成する。
// ゲートウェイ呼び出しは成否に関わらず1回のみ。
// メール未確認のアカウントは資格情報が正しくてもセッションを作成しない。
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.Session, *model.User, error) {
	if email == "" || password == "" {
		s.recordLoginFailure("empty-field")
		return nil, nil, model.NewEmptyRequiredFieldError()
	}

	info, err := s.gateway.SignIn(ctx, email, password)
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			s.recordLoginFailure(string(gwErr.Reason))
			return nil, nil, mapGatewayError(gwErr)
		}
		s.recordLoginFailure(string(ReasonUnspecified))
		return nil, nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if !info.EmailVerified {
		s.recordLoginFailure("email-not-verified")
		return nil, nil, model.NewEmailNotVerifiedError()
	}

	session, err := s.createSession(ctx, info.ID)
	if err != nil {
		s.recordLoginFailure("session-create-failed")
		return nil, nil, err
	}

	user, err := s.userRepo.FindByID(ctx, info.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		// プロファイル未登録でもログイン自体は成立する。表示名はメールアドレスにフォールバックする。
		user = &model.User{ID: info.ID, Email: info.Email}
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	return session, user, nil
}

// SignOut はセッションを削除する。
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}
	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// FindSession は有効なセッションを取得する。期限切れ・不存在の場合はnilを返す。
func (s *Service) FindSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// GetCurrentUser はログイン中ユーザーのプロファイルを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// RequestPasswordReset はパスワード再設定メールの送信を依頼する。
// アカウントの存在有無は結果から判別できない。
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return model.NewEmptyRequiredFieldError()
	}
	if err := s.gateway.SendPasswordReset(ctx, email); err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	return nil
}

// ConfirmPasswordReset は再設定トークンを消費しパスワードを更新する。
// 更新後は対象ユーザーの全セッションを無効化する。
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return model.NewEmptyRequiredFieldError()
	}

	accountID, err := s.gateway.ConfirmPasswordReset(ctx, token, newPassword)
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			return mapGatewayError(gwErr)
		}
		return fmt.Errorf("failed to confirm password reset: %w", err)
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, accountID); err != nil {
		// パスワード更新自体は完了しているため、セッション削除の失敗はログに留める
		s.logger.Error("failed to delete sessions after password reset", slog.String("error", err.Error()))
	}
	return nil
}

// VerifyEmail は確認トークンを消費しメールアドレスを確認済みにする。
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return model.NewInvalidTokenError()
	}
	if err := s.gateway.VerifyEmail(ctx, token); err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			return mapGatewayError(gwErr)
		}
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

// ChangePassword は現在のパスワードを検証した上で新しいパスワードに変更する。
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if currentPassword == "" || newPassword == "" {
		return model.NewEmptyRequiredFieldError()
	}

	if err := s.gateway.ChangePassword(ctx, userID, currentPassword, newPassword); err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) {
			return mapGatewayError(gwErr)
		}
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// createSession は新しいセッションを作成する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: now.Add(s.config.SessionMaxAge),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *Service) recordLoginFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordLoginFailure(reason)
	}
}

// generateSessionID は暗号論的に安全なセッションIDを生成する
func generateSessionID() (string, error) {
	return generateToken()
}

// mapGatewayError はゲートウェイの理由コードをユーザー向けエラーに対応付ける。
func mapGatewayError(err *GatewayError) *model.APIError {
	switch err.Reason {
	case ReasonAccountNotFound:
		return model.NewAccountNotFoundError()
	case ReasonInvalidEmail:
		return model.NewInvalidEmailError()
	case ReasonWrongPassword:
		return model.NewWrongPasswordError()
	case ReasonEmailInUse:
		return model.NewEmailInUseError()
	case ReasonWeakPassword:
		return model.NewWeakPasswordError()
	case ReasonInvalidToken:
		return model.NewInvalidTokenError()
	default:
		return model.NewUnspecifiedError("")
	}
}
