package ports

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Commit si fn retorna nil; rollback completo ante cualquier error.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
