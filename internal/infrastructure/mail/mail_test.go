package mail_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/infrastructure/mail"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

type captureSender struct {
	msgs []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	s.msgs = append(s.msgs, m...)
	return s.err
}

type recorder struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (r *recorder) Notify(_ context.Context, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func TestSMTPNotifier_ConstruyeMensajeConAdjunto(t *testing.T) {
	sender := &captureSender{}
	n := mail.NewSMTPNotifierWithSender(sender, "compras@acme.test")

	err := n.Notify(context.Background(), ports.Notification{
		To:      []string{"ventas@proveedor.test"},
		Subject: "Orden de compra PO-1",
		Body:    "<p>Adjunto</p>",
		Attachments: []ports.Attachment{
			{Filename: "PO-1.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	})
	require.NoError(t, err)
	require.Len(t, sender.msgs, 1)

	m := sender.msgs[0]
	assert.Equal(t, []string{"compras@acme.test"}, m.GetHeader("From"))
	assert.Equal(t, []string{"ventas@proveedor.test"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Orden de compra PO-1"}, m.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `filename="PO-1.pdf"`)
}

func TestSMTPNotifier_SinDestinatariosOFalloSMTP(t *testing.T) {
	sender := &captureSender{}
	n := mail.NewSMTPNotifierWithSender(sender, "compras@acme.test")
	assert.Error(t, n.Notify(context.Background(), ports.Notification{Subject: "x"}))
	assert.Empty(t, sender.msgs)

	sender.err = errors.New("smtp caído")
	err := n.Notify(context.Background(), ports.Notification{To: []string{"a@b.test"}, Subject: "x"})
	assert.ErrorIs(t, err, sender.err)
}

func TestAsyncNotifier_EntregaAlDetener(t *testing.T) {
	rec := &recorder{}
	n := mail.NewAsyncNotifier(rec, 10, logger.NewNop())
	n.Start(context.Background())

	for _, subject := range []string{"a", "b", "c"} {
		require.NoError(t, n.Notify(context.Background(), ports.Notification{To: []string{"x@y.test"}, Subject: subject}))
	}
	n.Stop()

	require.Len(t, rec.sent, 3)
	assert.Equal(t, "a", rec.sent[0].Subject)
	assert.ErrorIs(t, n.Notify(context.Background(), ports.Notification{}), mail.ErrStopped)
	n.Stop()
}

func TestAsyncNotifier_ColaLlena(t *testing.T) {
	n := mail.NewAsyncNotifier(&recorder{}, 1, logger.NewNop())

	require.NoError(t, n.Notify(context.Background(), ports.Notification{Subject: "1"}))
	assert.ErrorIs(t, n.Notify(context.Background(), ports.Notification{Subject: "2"}), mail.ErrQueueFull)
}

func TestLogNotifier_NoFalla(t *testing.T) {
	n := mail.NewLogNotifier(logger.NewNop())
	assert.NoError(t, n.Notify(context.Background(), ports.Notification{To: []string{"a@b.test"}, Subject: "x"}))
}
