package mail

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// ErrQueueFull la cola de notificaciones está llena; la notificación se descarta.
var ErrQueueFull = errors.New("mail: cola de notificaciones llena")

// ErrStopped el worker ya fue detenido.
var ErrStopped = errors.New("mail: notifier detenido")

var _ ports.Notifier = (*AsyncNotifier)(nil)

// AsyncNotifier encola notificaciones y las entrega desde un worker en segundo plano,
// de modo que el request HTTP no espera al servidor SMTP.
type AsyncNotifier struct {
	next  ports.Notifier
	log   *logger.Logger
	queue chan ports.Notification

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAsyncNotifier crea la cola con capacidad size (mínimo 1).
func NewAsyncNotifier(next ports.Notifier, size int, log *logger.Logger) *AsyncNotifier {
	if size < 1 {
		size = 1
	}
	return &AsyncNotifier{next: next, log: log, queue: make(chan ports.Notification, size)}
}

// Start lanza el worker. ctx se pasa a cada entrega.
func (n *AsyncNotifier) Start(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for msg := range n.queue {
			if err := n.next.Notify(ctx, msg); err != nil {
				n.log.Error().Err(err).Str("subject", msg.Subject).Msg("entrega de notificación fallida")
			}
		}
	}()
}

// Notify encola sin bloquear.
func (n *AsyncNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.stopped {
		return ErrStopped
	}
	select {
	case n.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop cierra la cola y espera a que el worker entregue lo pendiente.
func (n *AsyncNotifier) Stop() {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		return
	}
	n.stopped = true
	close(n.queue)
	n.mu.Unlock()
	n.wg.Wait()
}
