// Package mail envia as notificações da plataforma (nova solicitação,
// entrevista agendada, retirada, conclusão etc.) por SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

// Mailer é a porta usada pelos serviços de domínio.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer envia e-mail real via go-mail.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

func NewSMTP(opts Options) (*SMTPMailer, error) {
	if strings.TrimSpace(opts.Host) == "" {
		return nil, errors.New("mail: host required")
	}
	if strings.TrimSpace(opts.From) == "" {
		return nil, errors.New("mail: from required")
	}

	clientOpts := []gomail.Option{
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if opts.Port > 0 {
		clientOpts = append(clientOpts, gomail.WithPort(opts.Port))
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(opts.Username),
			gomail.WithPassword(opts.Password),
		)
	}

	client, err := gomail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("mail: %w", err)
	}

	return &SMTPMailer{client: client, from: opts.From}, nil
}

// NewSMTPFromEnv monta o mailer a partir de SMTP_HOST, SMTP_PORT, SMTP_USER,
// SMTP_PASSWORD e SMTP_FROM. Sem SMTP_HOST retorna nil (caller decide o
// fallback).
func NewSMTPFromEnv() (*SMTPMailer, error) {
	host := strings.TrimSpace(os.Getenv("SMTP_HOST"))
	if host == "" {
		return nil, nil
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	return NewSMTP(Options{
		Host:     host,
		Port:     port,
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	})
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// Nop descarta as mensagens (modo dev e testes).
func Nop() Mailer { return nopMailer{} }

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string) error { return nil }
