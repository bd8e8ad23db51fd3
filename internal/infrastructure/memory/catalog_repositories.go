package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// CategoryRepo implementa repository.CategoryRepository en memoria.
type CategoryRepo struct{ v view }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.categories[c.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, other := range d.categories {
			if other.ParentID == c.ParentID && other.Slug == c.Slug {
				return fmt.Errorf("insert category: %w", domain.ErrDuplicate)
			}
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.with(func(d *dataset) error {
		if c, ok := d.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) GetSibling(_ context.Context, parentID, slug string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.with(func(d *dataset) error {
		for _, c := range d.categories {
			if c.ParentID == parentID && c.Slug == slug {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) List(_ context.Context, f repository.CategoryFilter) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.Category, 0)
		for _, c := range d.categories {
			if f.ParentID != nil && c.ParentID != *f.ParentID {
				continue
			}
			if f.ActiveOnly && !c.IsActive() {
				continue
			}
			c := c
			list = append(list, &c)
		}
		sortCategories(list)
		out = paginate(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *CategoryRepo) ListChildren(_ context.Context, parentID string, activeOnly bool) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.with(func(d *dataset) error {
		out = make([]*entity.Category, 0)
		for _, c := range d.categories {
			if c.ParentID != parentID || (activeOnly && !c.IsActive()) {
				continue
			}
			c := c
			out = append(out, &c)
		}
		sortCategories(out)
		return nil
	})
	return out, err
}

func (r *CategoryRepo) SetStatus(_ context.Context, ids []string, status string) error {
	return r.v.with(func(d *dataset) error {
		now := time.Now()
		for _, id := range ids {
			c, ok := d.categories[id]
			if !ok {
				continue
			}
			c.Status = status
			c.UpdatedAt = now
			d.categories[id] = c
		}
		return nil
	})
}

func sortCategories(list []*entity.Category) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct{ v view }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.products {
			if other.SKU == p.SKU {
				return fmt.Errorf("insert product: %w", domain.ErrDuplicate)
			}
		}
		d.products[p.ID] = cloneProduct(*p)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			p = cloneProduct(p)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(d *dataset) error {
		for _, p := range d.products {
			if p.SKU == sku {
				p = cloneProduct(p)
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		d.products[p.ID] = cloneProduct(*p)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, categoryID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.Product, 0)
		for _, p := range d.products {
			if categoryID != "" && p.CategoryID != categoryID {
				continue
			}
			p = cloneProduct(p)
			list = append(list, &p)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) CountActiveByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	err := r.v.with(func(d *dataset) error {
		for _, p := range d.products {
			if p.CategoryID == categoryID && p.IsActive() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ProductRepo) DeactivateByCategories(_ context.Context, categoryIDs []string) error {
	set := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		set[id] = struct{}{}
	}
	return r.v.with(func(d *dataset) error {
		now := time.Now()
		for id, p := range d.products {
			if _, ok := set[p.CategoryID]; !ok || !p.IsActive() {
				continue
			}
			p.Status = entity.ProductStatusInactive
			p.UpdatedAt = now
			d.products[id] = p
		}
		return nil
	})
}

// SupplierRepo implementa repository.SupplierRepository en memoria.
type SupplierRepo struct{ v view }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.suppliers {
			if other.Code == s.Code {
				return fmt.Errorf("insert supplier: %w", domain.ErrDuplicate)
			}
		}
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.with(func(d *dataset) error {
		if s, ok := d.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) GetByCode(_ context.Context, code string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.v.with(func(d *dataset) error {
		for _, s := range d.suppliers {
			if s.Code == code {
				s := s
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.Supplier, 0)
		for _, s := range d.suppliers {
			if status != "" && s.Status != status {
				continue
			}
			s := s
			list = append(list, &s)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

// LocationRepo implementa repository.LocationRepository en memoria.
type LocationRepo struct{ v view }

var _ repository.LocationRepository = (*LocationRepo)(nil)

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.locations {
			if other.Code == l.Code {
				return fmt.Errorf("insert location: %w", domain.ErrDuplicate)
			}
		}
		d.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.v.with(func(d *dataset) error {
		if l, ok := d.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetByCode(_ context.Context, code string) (*entity.Location, error) {
	var out *entity.Location
	err := r.v.with(func(d *dataset) error {
		for _, l := range d.locations {
			if l.Code == code {
				l := l
				out = &l
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(_ context.Context, l *entity.Location) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.locations[l.ID]; !ok {
			return domain.ErrNotFound
		}
		d.locations[l.ID] = *l
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.Location, 0, len(d.locations))
		for _, l := range d.locations {
			l := l
			list = append(list, &l)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

// UserRepo implementa repository.UserRepository en memoria.
type UserRepo struct{ v view }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.users {
			if other.Email == u.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(d *dataset) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(d *dataset) error {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.users[u.ID]; !ok {
			return domain.ErrNotFound
		}
		d.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.User, 0, len(d.users))
		for _, u := range d.users {
			u := u
			list = append(list, &u)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}
