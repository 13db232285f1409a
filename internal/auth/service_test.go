package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jpyrsa/facturador/internal/model"
)

// --- モック定義 ---

type mockGateway struct {
	createAccountFn        func(ctx context.Context, email, password string) (*AccountInfo, error)
	signInFn               func(ctx context.Context, email, password string) (*AccountInfo, error)
	sendVerificationFn     func(ctx context.Context, accountID string) error
	sendPasswordResetFn    func(ctx context.Context, email string) error
	verifyEmailFn          func(ctx context.Context, token string) error
	confirmPasswordResetFn func(ctx context.Context, token, newPassword string) (string, error)
	changePasswordFn       func(ctx context.Context, accountID, currentPassword, newPassword string) error

	signInCalls int
}

func (m *mockGateway) CreateAccount(ctx context.Context, email, password string) (*AccountInfo, error) {
	if m.createAccountFn != nil {
		return m.createAccountFn(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockGateway) SignIn(ctx context.Context, email, password string) (*AccountInfo, error) {
	m.signInCalls++
	if m.signInFn != nil {
		return m.signInFn(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockGateway) SendVerificationEmail(ctx context.Context, accountID string) error {
	if m.sendVerificationFn != nil {
		return m.sendVerificationFn(ctx, accountID)
	}
	return nil
}

func (m *mockGateway) SendPasswordReset(ctx context.Context, email string) error {
	if m.sendPasswordResetFn != nil {
		return m.sendPasswordResetFn(ctx, email)
	}
	return nil
}

func (m *mockGateway) VerifyEmail(ctx context.Context, token string) error {
	if m.verifyEmailFn != nil {
		return m.verifyEmailFn(ctx, token)
	}
	return nil
}

func (m *mockGateway) ConfirmPasswordReset(ctx context.Context, token, newPassword string) (string, error) {
	if m.confirmPasswordResetFn != nil {
		return m.confirmPasswordResetFn(ctx, token, newPassword)
	}
	return "", errors.New("not implemented")
}

func (m *mockGateway) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, accountID, currentPassword, newPassword)
	}
	return nil
}

type mockUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
	upsertFn   func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *model.User) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

type mockSessionRepo struct {
	createFn         func(ctx context.Context, session *model.Session) error
	findByIDFn       func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn     func(ctx context.Context, id string) error
	deleteByUserIDFn func(ctx context.Context, userID string) error

	created        []*model.Session
	deletedUserIDs []string
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	m.created = append(m.created, session)
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	m.deletedUserIDs = append(m.deletedUserIDs, userID)
	if m.deleteByUserIDFn != nil {
		return m.deleteByUserIDFn(ctx, userID)
	}
	return nil
}

type mockMetrics struct {
	successCount   int
	failureReasons []string
}

func (m *mockMetrics) RecordLoginSuccess() {
	m.successCount++
}

func (m *mockMetrics) RecordLoginFailure(reason string) {
	m.failureReasons = append(m.failureReasons, reason)
}

func newTestService(gateway *mockGateway, userRepo *mockUserRepo, sessionRepo *mockSessionRepo, metrics *mockMetrics) *Service {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	return NewService(gateway, userRepo, sessionRepo, metrics,
		ServiceConfig{SessionMaxAge: 24 * time.Hour}, logger)
}

func verifiedAccount() *AccountInfo {
	return &AccountInfo{ID: "account-1", Email: "cliente@example.com", EmailVerified: true}
}

// --- SignIn ---

func TestService_SignIn_Success_CreatesSession(t *testing.T) {
	gateway := &mockGateway{
		signInFn: func(ctx context.Context, email, password string) (*AccountInfo, error) {
			return verifiedAccount(), nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, GivenName: "María", Email: "cliente@example.com"}, nil
		},
	}
	sessionRepo := &mockSessionRepo{}
	metrics := &mockMetrics{}
	svc := newTestService(gateway, userRepo, sessionRepo, metrics)

	session, user, err := svc.SignIn(context.Background(), "cliente@example.com", "abc123!@")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	if gateway.signInCalls != 1 {
		t.Errorf("gateway.SignIn called %d times, want exactly 1", gateway.signInCalls)
	}
	if session == nil || session.UserID != "account-1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.ID == "" {
		t.Error("session ID should be generated")
	}
	if len(sessionRepo.created) != 1 {
		t.Fatalf("sessions created = %d, want 1", len(sessionRepo.created))
	}
	if user.GivenName != "María" {
		t.Errorf("user.GivenName = %q, want María", user.GivenName)
	}
	if metrics.successCount != 1 {
		t.Errorf("login success metric = %d, want 1", metrics.successCount)
	}
}

func TestService_SignIn_SetsSessionTimestamps(t *testing.T) {
	// セッション行のcreated_atはサービス側で設定する。
	// ゼロ値のままだとDBに 0001-01-01 が書き込まれてしまう。
	gateway := &mockGateway{
		signInFn: func(ctx context.Context, email, password string) (*AccountInfo, error) {
			return verifiedAccount(), nil
		},
	}
	sessionRepo := &mockSessionRepo{}
	svc := newTestService(gateway, &mockUserRepo{}, sessionRepo, &mockMetrics{})

	before := time.Now()
	_, _, err := svc.SignIn(context.Background(), "cliente@example.com", "abc123!@")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}

	if len(sessionRepo.created) != 1 {
		t.Fatalf("sessions created = %d, want 1", len(sessionRepo.created))
	}
	session := sessionRepo.created[0]
	if session.CreatedAt.IsZero() {
		t.Error("session.CreatedAt must be set before persisting")
	}
	if session.CreatedAt.Before(before) {
		t.Errorf("session.CreatedAt = %v, want >= %v", session.CreatedAt, before)
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		t.Errorf("session.ExpiresAt = %v should be after CreatedAt %v", session.ExpiresAt, session.CreatedAt)
	}
}

func TestService_SignIn_EmptyFields_DoesNotCallGateway(t *testing.T) {
	gateway := &mockGateway{}
	svc := newTestService(gateway, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	_, _, err := svc.SignIn(context.Background(), "", "abc123!@")
	if err == nil {
		t.Fatal("expected error for empty email")
	}
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptyRequiredField {
		t.Errorf("error = %v, want EMPTY_REQUIRED_FIELD", err)
	}
	if gateway.signInCalls != 0 {
		t.Errorf("gateway.SignIn called %d times, want 0", gateway.signInCalls)
	}
}

func TestService_SignIn_WrongPassword_NoSession(t *testing.T) {
	gateway := &mockGateway{
		signInFn: func(ctx context.Context, email, password string) (*AccountInfo, error) {
			return nil, NewGatewayError(ReasonWrongPassword, nil)
		},
	}
	sessionRepo := &mockSessionRepo{}
	metrics := &mockMetrics{}
	svc := newTestService(gateway, &mockUserRepo{}, sessionRepo, metrics)

	_, _, err := svc.SignIn(context.Background(), "cliente@example.com", "incorrecta")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeWrongPassword {
		t.Errorf("error = %v, want WRONG_PASSWORD", err)
	}
	if len(sessionRepo.created) != 0 {
		t.Error("no session should be created on wrong password")
	}
	if len(metrics.failureReasons) != 1 || metrics.failureReasons[0] != "wrong-password" {
		t.Errorf("failure reasons = %v, want [wrong-password]", metrics.failureReasons)
	}
}

func TestService_SignIn_AccountNotFound_SuggestsRegistration(t *testing.T) {
	gateway := &mockGateway{
		signInFn: func(ctx context.Context, email, password string) (*AccountInfo, error) {
			return nil, NewGatewayError(ReasonAccountNotFound, nil)
		},
	}
	svc := newTestService(gateway, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	_, _, err := svc.SignIn(context.Background(), "nuevo@example.com", "abc123!@")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeAccountNotFound {
		t.Fatalf("error = %v, want ACCOUNT_NOT_FOUND", err)
	}
	// 未登録ユーザーには登録を促すメッセージを返す
	if apiErr.Action == "" {
		t.Error("ACCOUNT_NOT_FOUND error should carry a registration suggestion")
	}
}

func TestService_SignIn_UnverifiedEmail_FailsClosed(t *testing.T) {
	// 資格情報が正しくてもメール未確認ならセッションを作成しない
	gateway := &mockGateway{
		signInFn: func(ctx context.Context, email, password string) (*AccountInfo, error) {
			return &AccountInfo{ID: "account-1", Email: email, EmailVerified: false}, nil
		},
	}
	sessionRepo := &mockSessionRepo{}
	metrics := &mockMetrics{}
	svc := newTestService(gateway, &mockUserRepo{}, sessionRepo, metrics)

	_, _, err := svc.SignIn(context.Background(), "pendiente@example.com", "abc123!@")
	if err == nil {
		t.Fatal("expected error for unverified email")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailNotVerified {
		t.Errorf("error = %v, want EMAIL_NOT_VERIFIED", err)
	}
	if gateway.signInCalls != 1 {
		t.Errorf("gateway.SignIn called %d times, want exactly 1", gateway.signInCalls)
	}
	if len(sessionRepo.created) != 0 {
		t.Error("no session should be created for unverified account")
	}
	if len(metrics.failureReasons) != 1 || metrics.failureReasons[0] != "email-not-verified" {
		t.Errorf("failure reasons = %v, want [email-not-verified]", metrics.failureReasons)
	}
}

func TestService_SignIn_MissingProfile_FallsBackToEmail(t *testing.T) {
	gateway := &mockGateway{
		signInFn: func(ctx context.Context, email, password string) (*AccountInfo, error) {
			return verifiedAccount(), nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil // プロファイル未登録
		},
	}
	svc := newTestService(gateway, userRepo, &mockSessionRepo{}, &mockMetrics{})

	_, user, err := svc.SignIn(context.Background(), "cliente@example.com", "abc123!@")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user == nil || user.Email != "cliente@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.DisplayName() != "cliente@example.com" {
		t.Errorf("DisplayName = %q, want email fallback", user.DisplayName())
	}
}

// --- SignOut / FindSession ---

func TestService_SignOut_DeletesSession(t *testing.T) {
	var deleted string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := newTestService(&mockGateway{}, &mockUserRepo{}, sessionRepo, &mockMetrics{})

	if err := svc.SignOut(context.Background(), "session-1"); err != nil {
		t.Fatalf("SignOut returned error: %v", err)
	}
	if deleted != "session-1" {
		t.Errorf("deleted session = %q, want session-1", deleted)
	}
}

func TestService_SignOut_EmptyID_ReturnsError(t *testing.T) {
	svc := newTestService(&mockGateway{}, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	if err := svc.SignOut(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty session ID")
	}
}

func TestService_FindSession_ReturnsNilForUnknown(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil
		},
	}
	svc := newTestService(&mockGateway{}, &mockUserRepo{}, sessionRepo, &mockMetrics{})

	session, err := svc.FindSession(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("FindSession returned error: %v", err)
	}
	if session != nil {
		t.Errorf("session = %+v, want nil", session)
	}
}

// --- GetCurrentUser ---

func TestService_GetCurrentUser_NotFound_ReturnsAPIError(t *testing.T) {
	svc := newTestService(&mockGateway{}, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	_, err := svc.GetCurrentUser(context.Background(), "missing-user")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("error = %v, want USER_NOT_FOUND", err)
	}
}

// --- パスワード再設定 ---

func TestService_RequestPasswordReset_EmptyEmail_ReturnsError(t *testing.T) {
	svc := newTestService(&mockGateway{}, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	err := svc.RequestPasswordReset(context.Background(), "")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmptyRequiredField {
		t.Errorf("error = %v, want EMPTY_REQUIRED_FIELD", err)
	}
}

func TestService_ConfirmPasswordReset_DeletesAllUserSessions(t *testing.T) {
	gateway := &mockGateway{
		confirmPasswordResetFn: func(ctx context.Context, token, newPassword string) (string, error) {
			return "account-1", nil
		},
	}
	sessionRepo := &mockSessionRepo{}
	svc := newTestService(gateway, &mockUserRepo{}, sessionRepo, &mockMetrics{})

	err := svc.ConfirmPasswordReset(context.Background(), "reset-token", "nueva123!@")
	if err != nil {
		t.Fatalf("ConfirmPasswordReset returned error: %v", err)
	}

	// パスワード変更後は全セッションが無効化されること
	if len(sessionRepo.deletedUserIDs) != 1 || sessionRepo.deletedUserIDs[0] != "account-1" {
		t.Errorf("deleted user sessions = %v, want [account-1]", sessionRepo.deletedUserIDs)
	}
}

func TestService_ConfirmPasswordReset_InvalidToken_ReturnsAPIError(t *testing.T) {
	gateway := &mockGateway{
		confirmPasswordResetFn: func(ctx context.Context, token, newPassword string) (string, error) {
			return "", NewGatewayError(ReasonInvalidToken, nil)
		},
	}
	sessionRepo := &mockSessionRepo{}
	svc := newTestService(gateway, &mockUserRepo{}, sessionRepo, &mockMetrics{})

	err := svc.ConfirmPasswordReset(context.Background(), "expired", "nueva123!@")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidToken {
		t.Errorf("error = %v, want INVALID_TOKEN", err)
	}
	if len(sessionRepo.deletedUserIDs) != 0 {
		t.Error("sessions should not be deleted when token is invalid")
	}
}

func TestService_ConfirmPasswordReset_SessionDeletionFailure_StillSucceeds(t *testing.T) {
	gateway := &mockGateway{
		confirmPasswordResetFn: func(ctx context.Context, token, newPassword string) (string, error) {
			return "account-1", nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFn: func(ctx context.Context, userID string) error {
			return errors.New("db unavailable")
		},
	}
	svc := newTestService(gateway, &mockUserRepo{}, sessionRepo, &mockMetrics{})

	// パスワード更新自体は完了しているためエラーにしない
	if err := svc.ConfirmPasswordReset(context.Background(), "reset-token", "nueva123!@"); err != nil {
		t.Errorf("ConfirmPasswordReset returned error: %v", err)
	}
}

// --- VerifyEmail ---

func TestService_VerifyEmail_EmptyToken_ReturnsInvalidToken(t *testing.T) {
	svc := newTestService(&mockGateway{}, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	err := svc.VerifyEmail(context.Background(), "")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidToken {
		t.Errorf("error = %v, want INVALID_TOKEN", err)
	}
}

// --- ChangePassword ---

func TestService_ChangePassword_WrongCurrentPassword_ReturnsAPIError(t *testing.T) {
	gateway := &mockGateway{
		changePasswordFn: func(ctx context.Context, accountID, currentPassword, newPassword string) error {
			return NewGatewayError(ReasonWrongPassword, nil)
		},
	}
	svc := newTestService(gateway, &mockUserRepo{}, &mockSessionRepo{}, &mockMetrics{})

	err := svc.ChangePassword(context.Background(), "account-1", "incorrecta", "nueva123!@")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeWrongPassword {
		t.Errorf("error = %v, want WRONG_PASSWORD", err)
	}
}
