package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo implementan *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// idMappingQuerier traduce los identificadores con sintaxis inválida a domain.ErrNotFound:
// un id que no es UUID no puede existir.
type idMappingQuerier struct {
	q Querier
}

func (m idMappingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	tag, err := m.q.Exec(ctx, sql, args...)
	return tag, mapInvalidID(err)
}

func (m idMappingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := m.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapInvalidID(err)
	}
	return idMappingRows{Rows: rows}, nil
}

func (m idMappingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return idMappingRow{row: m.q.QueryRow(ctx, sql, args...)}
}

type idMappingRow struct {
	row pgx.Row
}

func (r idMappingRow) Scan(dest ...any) error {
	return mapInvalidID(r.row.Scan(dest...))
}

type idMappingRows struct {
	pgx.Rows
}

func (r idMappingRows) Err() error {
	return mapInvalidID(r.Rows.Err())
}
