package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Recipient is who an account message goes to.
type Recipient struct {
	Nombre   string
	Email    string
	Telefono string
}

type emailData struct {
	Nombre string
	Link   string
	Expira string
	Year   int
}

// SenderService composes account messages and hands them to the mail and SMS providers.
type SenderService struct {
	mailer Mailer
	sms    SMSSender
	logger *zap.Logger
	loc    *time.Location
}

func NewSenderService(mailer Mailer, sms SMSSender, logger *zap.Logger) *SenderService {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		loc = time.FixedZone("ART", -3*60*60)
	}
	return &SenderService{mailer: mailer, sms: sms, logger: logger, loc: loc}
}

func (s *SenderService) SendActivation(ctx context.Context, to Recipient, link string, expires time.Time) error {
	subject := "Activá tu cuenta de FindMySpace"
	plain := fmt.Sprintf(
		"Hola %s,\n\nGracias por registrarte en FindMySpace.\n"+
			"Para activar tu cuenta abrí este enlace:\n%s\n\n"+
			"El enlace vence el %s.\n",
		to.Nombre, link, s.format(expires))
	html, err := s.render("activation_email.html", to, link, expires)
	if err != nil {
		return err
	}
	return s.mailer.SendEmail(ctx, to.Email, to.Nombre, subject, plain, html)
}

// SendPasswordReset emails the reset link and, when the account has a phone, texts it too.
// A failed SMS is logged; only the email decides the result.
func (s *SenderService) SendPasswordReset(ctx context.Context, to Recipient, link string, expires time.Time) error {
	subject := "Restablecé tu contraseña de FindMySpace"
	plain := fmt.Sprintf(
		"Hola %s,\n\nRecibimos un pedido para restablecer tu contraseña.\n"+
			"Abrí este enlace para elegir una nueva:\n%s\n\n"+
			"El enlace vence el %s. Si no lo pediste, ignorá este correo.\n",
		to.Nombre, link, s.format(expires))
	html, err := s.render("reset_email.html", to, link, expires)
	if err != nil {
		return err
	}
	if err := s.mailer.SendEmail(ctx, to.Email, to.Nombre, subject, plain, html); err != nil {
		return err
	}
	if to.Telefono != "" {
		body := fmt.Sprintf("FindMySpace: pediste restablecer tu contraseña. Revisá tu correo %s. Vence %s.",
			to.Email, expires.In(s.loc).Format("02/01 15:04"))
		if err := s.sms.SendSMS(ctx, to.Telefono, body); err != nil {
			s.logger.Warn("password reset sms failed", zap.String("to", to.Telefono), zap.Error(err))
		}
	}
	return nil
}

func (s *SenderService) render(name string, to Recipient, link string, expires time.Time) (string, error) {
	var buf bytes.Buffer
	data := emailData{Nombre: to.Nombre, Link: link, Expira: s.format(expires), Year: time.Now().In(s.loc).Year()}
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (s *SenderService) format(t time.Time) string {
	return t.In(s.loc).Format("02/01/2006 15:04")
}
