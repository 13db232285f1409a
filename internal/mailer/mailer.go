// Package mailer はトランザクションメールの送信を提供する。
// メール確認とパスワード再設定の2種類の通知を扱う。
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer はトランザクションメール送信のインターフェース。
type Mailer interface {
	// SendVerificationEmail はメールアドレス確認リンクを送信する。
	SendVerificationEmail(ctx context.Context, to, token string) error
	// SendPasswordResetEmail はパスワード再設定リンクを送信する。
	SendPasswordResetEmail(ctx context.Context, to, token string) error
}

// SMTPConfig はSMTPメーラーの設定。
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	BaseURL  string // リンク生成に使うポータルのベースURL
}

// SMTPMailer はnet/smtpを使用したMailerの実装。
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer はSMTPMailerを生成する。
func NewSMTPMailer(config SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// SendVerificationEmail はメールアドレス確認リンクを送信する。
func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, token string) error {
	subject := "Verifica tu correo electrónico"
	link := fmt.Sprintf("%s/verificar?token=%s", m.config.BaseURL, token)
	body := fmt.Sprintf(
		"Bienvenido al sitio de Facturación de Jpyrsa.\r\n\r\n"+
			"Para completar tu registro, verifica tu correo electrónico en el siguiente enlace:\r\n%s\r\n",
		link,
	)
	return m.send(ctx, to, subject, body)
}

// SendPasswordResetEmail はパスワード再設定リンクを送信する。
func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	subject := "Recupera tu contraseña"
	link := fmt.Sprintf("%s/recuperarpassword?token=%s", m.config.BaseURL, token)
	body := fmt.Sprintf(
		"Recibimos una solicitud para cambiar tu contraseña.\r\n\r\n"+
			"Sigue el siguiente enlace para establecer una nueva contraseña:\r\n%s\r\n\r\n"+
			"Si no solicitaste este cambio, ignora este correo.\r\n",
		link,
	)
	return m.send(ctx, to, subject, body)
}

// send はSMTP経由でメールを送信する。
// contextのキャンセルは送信開始前のみ確認する（net/smtpは途中キャンセル不可）。
func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send cancelled: %w", err)
	}

	msg := buildMessage(m.config.From, to, subject, body)

	addr := m.config.Host + ":" + m.config.Port
	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// buildMessage はRFC 5322形式のメッセージを構築する。
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// compile-time interface check
var _ Mailer = (*SMTPMailer)(nil)
