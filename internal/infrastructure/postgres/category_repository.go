package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, COALESCE(parent_id::text, ''), name, slug, description, level, path, status, created_at, updated_at`

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
// La unicidad entre hermanos la garantiza el índice único (COALESCE(parent_id, nil uuid), slug).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, parent_id, name, slug, description, level, path, status, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ParentID, c.Name, c.Slug, c.Description, c.Level, c.Path, c.Status, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.scanOne(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepo) GetSibling(ctx context.Context, parentID, slug string) (*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories
		WHERE parent_id IS NOT DISTINCT FROM NULLIF($1, '')::uuid AND slug = $2`
	return r.scanOne(r.q.QueryRow(ctx, query, parentID, slug))
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET parent_id = NULLIF($2, '')::uuid, name = $3, slug = $4, description = $5,
			level = $6, path = $7, status = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ParentID, c.Name, c.Slug, c.Description, c.Level, c.Path, c.Status, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, f repository.CategoryFilter) ([]*entity.Category, error) {
	var w filter
	if f.ParentID != nil {
		w.addAlways("parent_id IS NOT DISTINCT FROM NULLIF(?, '')::uuid", *f.ParentID)
	}
	if f.ActiveOnly {
		w.raw("status = 'active'")
	}
	query := `SELECT ` + categoryColumns + ` FROM categories` + w.where() + ` ORDER BY name, id`
	query += w.page(f.Limit, f.Offset)
	return r.scanAll(ctx, query, w.args...)
}

func (r *CategoryRepo) ListChildren(ctx context.Context, parentID string, activeOnly bool) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = $1`
	if activeOnly {
		query += ` AND status = 'active'`
	}
	return r.scanAll(ctx, query+` ORDER BY name, id`, parentID)
}

func (r *CategoryRepo) SetStatus(ctx context.Context, ids []string, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE categories SET status = $2, updated_at = now() WHERE id = ANY($1::uuid[])`,
		ids, status,
	)
	if err != nil {
		return fmt.Errorf("set category status: %w", err)
	}
	return nil
}

func (r *CategoryRepo) scanOne(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description, &c.Level, &c.Path, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) scanAll(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description, &c.Level, &c.Path, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
