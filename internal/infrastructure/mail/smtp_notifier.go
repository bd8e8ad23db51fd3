// Package mail entrega las notificaciones del ciclo de compras por correo.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/pkg/config"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

var (
	_ ports.Notifier = (*SMTPNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// Sender abstrae el envío SMTP (gomail.Dialer en producción).
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier envía cada notificación como un correo HTML con sus adjuntos.
type SMTPNotifier struct {
	sender Sender
	from   string
}

// NewSMTPNotifier crea el notifier con un gomail.Dialer a partir de la configuración.
func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return NewSMTPNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

// NewSMTPNotifierWithSender permite inyectar el Sender.
func NewSMTPNotifierWithSender(sender Sender, from string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from}
}

// Notify construye el mensaje y lo entrega. El contexto solo se consulta antes de conectar.
func (n *SMTPNotifier) Notify(ctx context.Context, msg ports.Notification) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("mail: notificación sin destinatarios")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.sender.DialAndSend(n.message(msg)); err != nil {
		return fmt.Errorf("mail: enviar %q: %w", msg.Subject, err)
	}
	return nil
}

func (n *SMTPNotifier) message(msg ports.Notification) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

// LogNotifier registra las notificaciones sin enviarlas (SMTP no configurado).
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier crea el notifier de solo log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.log.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Int("attachments", len(msg.Attachments)).
		Msg("notificación (SMTP deshabilitado)")
	return nil
}
