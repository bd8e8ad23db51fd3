package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/category"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// DefaultTreeDepth profundidad de GetTree cuando el caller no la indica.
const DefaultTreeDepth = 5

// CategoryUseCase administra el árbol de categorías: alta, re-parentado sin ciclos,
// recálculo de rutas en cascada y baja lógica del subárbol.
type CategoryUseCase struct {
	repo         repository.CategoryRepository
	tx           ports.TxRunner
	log          *logger.Logger
	maxTreeDepth int
}

// NewCategoryUseCase construye el caso de uso. maxTreeDepth acota GetTree.
func NewCategoryUseCase(repo repository.CategoryRepository, tx ports.TxRunner, log *logger.Logger, maxTreeDepth int) *CategoryUseCase {
	if maxTreeDepth <= 0 {
		maxTreeDepth = DefaultTreeDepth
	}
	return &CategoryUseCase{repo: repo, tx: tx, log: log, maxTreeDepth: maxTreeDepth}
}

// Create crea una categoría raíz o hija de in.ParentID con nivel y ruta calculados.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if entity.CategorySlug(name) == "" {
		return nil, fmt.Errorf("%w: nombre de categoría vacío", domain.ErrInvalidInput)
	}
	var created *entity.Category
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var parent *entity.Category
		if in.ParentID != "" {
			p, err := r.Categories.GetByID(ctx, in.ParentID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: categoría padre %s", domain.ErrNotFound, in.ParentID)
			}
			if !p.IsActive() {
				return fmt.Errorf("%w: la categoría padre está inactiva", domain.ErrInvalidOperation)
			}
			parent = p
		}
		if err := ensureUniqueSibling(ctx, r.Categories, in.ParentID, name, ""); err != nil {
			return err
		}
		now := time.Now()
		c := &entity.Category{
			ID:          uuid.New().String(),
			Name:        name,
			Description: in.Description,
			Status:      entity.CategoryStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		c.Place(parent)
		if err := r.Categories.Create(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(created), nil
}

// Update aplica cambios parciales. Si cambia el padre se verifica que no se forme un ciclo;
// si cambia el nombre o el padre se recalculan nivel y ruta de todo el subárbol.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	var updated *entity.Category
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}

		parentID := c.ParentID
		switch {
		case in.MoveToRoot:
			parentID = ""
		case in.ParentID != nil:
			parentID = *in.ParentID
		}
		reparent := parentID != c.ParentID

		var parent *entity.Category
		if parentID != "" {
			parent, err = r.Categories.GetByID(ctx, parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return fmt.Errorf("%w: categoría padre %s", domain.ErrNotFound, parentID)
			}
		}
		if reparent && parentID != "" {
			cycle, err := category.WouldCreateCycle(ctx, r.Categories.GetByID, c.ID, parentID)
			if err != nil {
				return err
			}
			if cycle {
				return domain.ErrCircularReference
			}
			if !parent.IsActive() {
				return fmt.Errorf("%w: la categoría padre está inactiva", domain.ErrInvalidOperation)
			}
		}

		renamed := false
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if entity.CategorySlug(name) == "" {
				return fmt.Errorf("%w: nombre de categoría vacío", domain.ErrInvalidInput)
			}
			renamed = name != c.Name
			c.Name = name
		}
		if in.Description != nil {
			c.Description = *in.Description
		}
		if renamed || reparent {
			if err := ensureUniqueSibling(ctx, r.Categories, parentID, c.Name, c.ID); err != nil {
				return err
			}
		}
		if in.Status != nil && *in.Status != c.Status {
			if err := checkStatusChange(ctx, r, c, parent, *in.Status); err != nil {
				return err
			}
			c.Status = *in.Status
		}

		now := time.Now()
		c.Place(parent)
		c.UpdatedAt = now
		if err := r.Categories.Update(ctx, c); err != nil {
			return err
		}
		if renamed || reparent {
			if err := cascadePaths(ctx, r.Categories, c, now); err != nil {
				return err
			}
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(updated), nil
}

// Delete desactiva la categoría. Sin force falla con ErrConflict si tiene subcategorías o
// productos activos; con force desactiva el subárbol completo (hijos antes que padres)
// y los productos de esas categorías.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string, force bool) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := r.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if !force {
			if err := ensureNoActiveDependents(ctx, r, id); err != nil {
				return err
			}
			return r.Categories.SetStatus(ctx, []string{id}, entity.CategoryStatusInactive)
		}

		subtree, err := category.Descendants(ctx, allChildren(r.Categories), id)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(subtree)+1)
		for i := len(subtree) - 1; i >= 0; i-- {
			ids = append(ids, subtree[i].ID)
		}
		ids = append(ids, id)
		if err := r.Categories.SetStatus(ctx, ids, entity.CategoryStatusInactive); err != nil {
			return err
		}
		if err := r.Products.DeactivateByCategories(ctx, ids); err != nil {
			return err
		}
		uc.log.Info().
			Str("category_id", id).
			Int("deactivated", len(ids)).
			Msg("subárbol de categorías desactivado")
		return nil
	})
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// List lista categorías por padre (o solo raíces), opcionalmente solo activas, ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context, in dto.CategoryListRequest) (*dto.CategoryListResponse, error) {
	in.DefaultPage()
	filter := repository.CategoryFilter{
		ActiveOnly: in.ActiveOnly,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	switch {
	case in.RootOnly:
		root := ""
		filter.ParentID = &root
	case in.ParentID != "":
		parentID := in.ParentID
		filter.ParentID = &parentID
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// GetTree devuelve la categoría con sus descendientes anidados hasta maxDepth niveles.
func (uc *CategoryUseCase) GetTree(ctx context.Context, id string, maxDepth int, activeOnly bool) (*dto.CategoryTreeResponse, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}
	if maxDepth > uc.maxTreeDepth {
		maxDepth = uc.maxTreeDepth
	}
	root, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if root == nil || (activeOnly && !root.IsActive()) {
		return nil, domain.ErrNotFound
	}
	visited := map[string]struct{}{root.ID: {}}
	tree, err := uc.buildTree(ctx, root, 0, maxDepth, activeOnly, visited)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

func (uc *CategoryUseCase) buildTree(ctx context.Context, c *entity.Category, depth, maxDepth int, activeOnly bool, visited map[string]struct{}) (dto.CategoryTreeResponse, error) {
	node := dto.CategoryTreeResponse{
		CategoryResponse: *toCategoryResponse(c),
		Children:         []dto.CategoryTreeResponse{},
	}
	if depth >= maxDepth {
		return node, nil
	}
	children, err := uc.repo.ListChildren(ctx, c.ID, activeOnly)
	if err != nil {
		return node, err
	}
	for _, child := range children {
		if _, seen := visited[child.ID]; seen {
			continue
		}
		visited[child.ID] = struct{}{}
		sub, err := uc.buildTree(ctx, child, depth+1, maxDepth, activeOnly, visited)
		if err != nil {
			return node, err
		}
		node.Children = append(node.Children, sub)
	}
	return node, nil
}

// Ancestors devuelve la ruta de navegación desde la raíz hasta el padre de la categoría.
func (uc *CategoryUseCase) Ancestors(ctx context.Context, id string) ([]dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	chain, err := category.Ancestors(ctx, uc.repo.GetByID, c)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(chain))
	for _, a := range chain {
		out = append(out, *toCategoryResponse(a))
	}
	return out, nil
}

func ensureUniqueSibling(ctx context.Context, repo repository.CategoryRepository, parentID, name, selfID string) error {
	existing, err := repo.GetSibling(ctx, parentID, entity.CategorySlug(name))
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: ya existe la categoría %q en este nivel", domain.ErrDuplicate, existing.Name)
	}
	return nil
}

func ensureNoActiveDependents(ctx context.Context, r repository.Repos, id string) error {
	children, err := r.Categories.ListChildren(ctx, id, true)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("%w: la categoría tiene %d subcategorías activas", domain.ErrConflict, len(children))
	}
	n, err := r.Products.CountActiveByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: la categoría tiene %d productos activos", domain.ErrConflict, n)
	}
	return nil
}

// checkStatusChange valida activar/desactivar vía Update con las mismas reglas que Delete sin force.
func checkStatusChange(ctx context.Context, r repository.Repos, c, parent *entity.Category, status string) error {
	if status == entity.CategoryStatusActive {
		if parent != nil && !parent.IsActive() {
			return fmt.Errorf("%w: no se puede activar bajo un padre inactivo", domain.ErrInvalidOperation)
		}
		return nil
	}
	return ensureNoActiveDependents(ctx, r, c.ID)
}

func cascadePaths(ctx context.Context, repo repository.CategoryRepository, root *entity.Category, now time.Time) error {
	subtree, err := category.Descendants(ctx, allChildren(repo), root.ID)
	if err != nil {
		return err
	}
	category.RecomputePaths(root, subtree)
	for _, d := range subtree {
		d.UpdatedAt = now
		if err := repo.Update(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func allChildren(repo repository.CategoryRepository) category.ChildrenLookup {
	return func(ctx context.Context, parentID string) ([]*entity.Category, error) {
		return repo.ListChildren(ctx, parentID, false)
	}
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Level:       c.Level,
		Path:        c.Path,
		Status:      c.Status,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
