package ports

import "context"

// Attachment archivo adjunto a una notificación.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Notification mensaje saliente (email) disparado por el ciclo de compras.
type Notification struct {
	To          []string
	Subject     string
	Body        string // HTML
	Attachments []Attachment
}

// Notifier puerto de salida para notificaciones. Los casos de uso lo invocan después del commit.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
