package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/jpyrsa/facturador/internal/mailer"
	"github.com/jpyrsa/facturador/internal/model"
	"github.com/jpyrsa/facturador/internal/repository"
)

const (
	// verificationTokenTTL はメール確認トークンの有効期間
	verificationTokenTTL = 24 * time.Hour
	// passwordResetTokenTTL はパスワード再設定トークンの有効期間
	passwordResetTokenTTL = 1 * time.Hour
	// gatewayMinPasswordLength はゲートウェイ自体が強制する最低パスワード長。
	// 登録フローの検証（8文字以上＋複雑性）より緩く、最後の防衛線として機能する。
	gatewayMinPasswordLength = 6
)

// PasswordGateway はbcryptハッシュとローカルDBによるCredentialGatewayの実装。
type PasswordGateway struct {
	credentialRepo repository.CredentialRepository
	tokenRepo      repository.AuthTokenRepository
	mailer         mailer.Mailer
	logger         *slog.Logger
}

// NewPasswordGateway はPasswordGatewayを生成する。
func NewPasswordGateway(
	credentialRepo repository.CredentialRepository,
	tokenRepo repository.AuthTokenRepository,
	m mailer.Mailer,
	logger *slog.Logger,
) *PasswordGateway {
	return &PasswordGateway{
		credentialRepo: credentialRepo,
		tokenRepo:      tokenRepo,
		mailer:         m,
		logger:         logger,
	}
}

// CreateAccount は新規アカウントを作成する。
func (g *PasswordGateway) CreateAccount(ctx context.Context, email, password string) (*AccountInfo, error) {
	if !isValidEmail(email) {
		return nil, NewGatewayError(ReasonInvalidEmail, nil)
	}
	if len(password) < gatewayMinPasswordLength {
		return nil, NewGatewayError(ReasonWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to hash password: %w", err))
	}

	now := time.Now()
	cred := &model.Credential{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := g.credentialRepo.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, NewGatewayError(ReasonEmailInUse, nil)
		}
		return nil, NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to create credential: %w", err))
	}

	return &AccountInfo{ID: cred.ID, Email: cred.Email, EmailVerified: false}, nil
}

// SignIn は資格情報を検証しアカウント情報を返す。
// メール確認状態はAccountInfoで返すのみで、ここでは判定しない。
func (g *PasswordGateway) SignIn(ctx context.Context, email, password string) (*AccountInfo, error) {
	if !isValidEmail(email) {
		return nil, NewGatewayError(ReasonInvalidEmail, nil)
	}

	cred, err := g.credentialRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to find credential: %w", err))
	}
	if cred == nil {
		return nil, NewGatewayError(ReasonAccountNotFound, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, NewGatewayError(ReasonWrongPassword, nil)
	}

	return &AccountInfo{ID: cred.ID, Email: cred.Email, EmailVerified: cred.EmailVerified}, nil
}

// SendVerificationEmail は確認トークンを発行しメールを送信する。
func (g *PasswordGateway) SendVerificationEmail(ctx context.Context, accountID string) error {
	cred, err := g.credentialRepo.FindByID(ctx, accountID)
	if err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to find credential: %w", err))
	}
	if cred == nil {
		return NewGatewayError(ReasonAccountNotFound, nil)
	}
	if cred.EmailVerified {
		return nil
	}

	token, err := g.issueToken(ctx, cred.ID, model.TokenPurposeVerifyEmail, verificationTokenTTL)
	if err != nil {
		return err
	}
	if err := g.mailer.SendVerificationEmail(ctx, cred.Email, token); err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to send verification email: %w", err))
	}
	return nil
}

// SendPasswordReset はパスワード再設定トークンを発行しメールを送信する。
// 未登録メールアドレスはログに残すのみで成功扱いとし、アカウントの存在を漏らさない。
func (g *PasswordGateway) SendPasswordReset(ctx context.Context, email string) error {
	cred, err := g.credentialRepo.FindByEmail(ctx, email)
	if err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to find credential: %w", err))
	}
	if cred == nil {
		g.logger.Info("password reset requested for unknown email")
		return nil
	}

	token, err := g.issueToken(ctx, cred.ID, model.TokenPurposePasswordReset, passwordResetTokenTTL)
	if err != nil {
		return err
	}
	if err := g.mailer.SendPasswordResetEmail(ctx, cred.Email, token); err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to send password reset email: %w", err))
	}
	return nil
}

// VerifyEmail は確認トークンを消費しメールアドレスを確認済みにする。
func (g *PasswordGateway) VerifyEmail(ctx context.Context, token string) error {
	consumed, err := g.tokenRepo.Consume(ctx, token, model.TokenPurposeVerifyEmail)
	if err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to consume token: %w", err))
	}
	if consumed == nil {
		return NewGatewayError(ReasonInvalidToken, nil)
	}

	if err := g.credentialRepo.MarkEmailVerified(ctx, consumed.CredentialID); err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to mark email verified: %w", err))
	}
	return nil
}

// ConfirmPasswordReset は再設定トークンを消費し新しいパスワードを設定する。
func (g *PasswordGateway) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (string, error) {
	if len(newPassword) < gatewayMinPasswordLength {
		return "", NewGatewayError(ReasonWeakPassword, nil)
	}

	consumed, err := g.tokenRepo.Consume(ctx, token, model.TokenPurposePasswordReset)
	if err != nil {
		return "", NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to consume token: %w", err))
	}
	if consumed == nil {
		return "", NewGatewayError(ReasonInvalidToken, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to hash password: %w", err))
	}
	if err := g.credentialRepo.UpdatePasswordHash(ctx, consumed.CredentialID, string(hash)); err != nil {
		return "", NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to update password hash: %w", err))
	}
	return consumed.CredentialID, nil
}

// ChangePassword は現在のパスワードを検証した上で新しいパスワードを設定する。
func (g *PasswordGateway) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if len(newPassword) < gatewayMinPasswordLength {
		return NewGatewayError(ReasonWeakPassword, nil)
	}

	cred, err := g.credentialRepo.FindByID(ctx, accountID)
	if err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to find credential: %w", err))
	}
	if cred == nil {
		return NewGatewayError(ReasonAccountNotFound, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(currentPassword)); err != nil {
		return NewGatewayError(ReasonWrongPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to hash password: %w", err))
	}
	if err := g.credentialRepo.UpdatePasswordHash(ctx, cred.ID, string(hash)); err != nil {
		return NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to update password hash: %w", err))
	}
	return nil
}

// issueToken は使い捨てトークンを生成し保存する。
func (g *PasswordGateway) issueToken(ctx context.Context, credentialID string, purpose model.TokenPurpose, ttl time.Duration) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", NewGatewayError(ReasonUnspecified, err)
	}
	now := time.Now()
	authToken := &model.AuthToken{
		Token:        token,
		CredentialID: credentialID,
		Purpose:      purpose,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}
	if err := g.tokenRepo.Create(ctx, authToken); err != nil {
		return "", NewGatewayError(ReasonUnspecified, fmt.Errorf("failed to create token: %w", err))
	}
	return token, nil
}

// generateToken は暗号論的に安全なランダムトークンを生成する
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// isValidEmail はメールアドレスの形式を検証する。
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// compile-time interface check
var _ CredentialGateway = (*PasswordGateway)(nil)
