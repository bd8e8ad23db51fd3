package category_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/category"
	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

func newUseCase(t *testing.T) (*category.CategoryUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return category.NewCategoryUseCase(store.Repos().Categories, store, logger.NewNop(), 10), store
}

func mustCreate(t *testing.T, uc *category.CategoryUseCase, name, parentID string) *dto.CategoryResponse {
	t.Helper()
	c, err := uc.Create(context.Background(), dto.CreateCategoryRequest{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return c
}

func ptr[T any](v T) *T { return &v }

func TestCreate_CalculaNivelYRuta(t *testing.T) {
	uc, _ := newUseCase(t)

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	sheet := mustCreate(t, uc, "Sheet", steel.ID)

	assert.Equal(t, 0, raw.Level)
	assert.Equal(t, "Raw Materials", raw.Path)
	assert.Equal(t, "raw-materials", raw.Slug)
	assert.Equal(t, 2, sheet.Level)
	assert.Equal(t, "Raw Materials / Steel / Sheet", sheet.Path)
	assert.Equal(t, steel.ID, sheet.ParentID)
}

func TestCreate_PadreInexistenteOInactivo(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Huérfana", ParentID: uuid.New().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	parent := mustCreate(t, uc, "Obsoletos", "")
	require.NoError(t, uc.Delete(ctx, parent.ID, false))

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Hija", ParentID: parent.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestCreate_NombreDuplicadoEntreHermanos(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	mustCreate(t, uc, "Steel", raw.ID)

	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: " steel ", ParentID: raw.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// el mismo nombre bajo otro padre es válido
	other := mustCreate(t, uc, "Finished Goods", "")
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Steel", ParentID: other.ID})
	assert.NoError(t, err)
}

func TestUpdate_RechazaCiclo(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)

	_, err := uc.Update(ctx, raw.ID, dto.UpdateCategoryRequest{ParentID: ptr(steel.ID)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCircularReference)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = uc.Update(ctx, raw.ID, dto.UpdateCategoryRequest{ParentID: ptr(raw.ID)})
	assert.ErrorIs(t, err, domain.ErrCircularReference, "una categoría no puede ser su propio padre")

	got, err := uc.GetByID(ctx, raw.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ParentID, "el rechazo no debe persistir cambios")
}

func TestUpdate_RenombrarPropagaRutas(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	sheet := mustCreate(t, uc, "Sheet", steel.ID)

	_, err := uc.Update(ctx, raw.ID, dto.UpdateCategoryRequest{Name: ptr("Materials")})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Materials / Steel / Sheet", got.Path)
	assert.Equal(t, 2, got.Level)
}

func TestUpdate_MoverSubarbolRecalculaNiveles(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	sheet := mustCreate(t, uc, "Sheet", steel.ID)

	moved, err := uc.Update(ctx, steel.ID, dto.UpdateCategoryRequest{MoveToRoot: true})
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Level)
	assert.Equal(t, "Steel", moved.Path)

	got, err := uc.GetByID(ctx, sheet.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, "Steel / Sheet", got.Path)

	ancestors, err := uc.Ancestors(ctx, sheet.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 1)
	assert.Equal(t, steel.ID, ancestors[0].ID)
}

func TestDelete_SinForceConHijosActivos(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	mustCreate(t, uc, "Steel", raw.ID)

	err := uc.Delete(ctx, raw.ID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.GetByID(ctx, raw.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryStatusActive, got.Status)
}

func TestDelete_SinForceConProductosActivos(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	seedProduct(t, store, raw.ID)

	assert.ErrorIs(t, uc.Delete(ctx, raw.ID, false), domain.ErrConflict)
}

func TestDelete_ForceDesactivaSubarbolYProductos(t *testing.T) {
	uc, store := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	sheet := mustCreate(t, uc, "Sheet", steel.ID)
	productID := seedProduct(t, store, sheet.ID)

	require.NoError(t, uc.Delete(ctx, raw.ID, true))

	for _, id := range []string{raw.ID, steel.ID, sheet.ID} {
		got, err := uc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.CategoryStatusInactive, got.Status, id)
	}
	p, err := store.Repos().Products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.False(t, p.IsActive())

	active, err := uc.List(ctx, dto.CategoryListRequest{RootOnly: true, ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active.Items)
}

func TestGetTree_RespetaProfundidad(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	mustCreate(t, uc, "Aluminium", raw.ID)
	mustCreate(t, uc, "Sheet", steel.ID)

	tree, err := uc.GetTree(ctx, raw.ID, 1, false)
	require.NoError(t, err)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "Aluminium", tree.Children[0].Name, "hijos ordenados por nombre")
	for _, child := range tree.Children {
		assert.Empty(t, child.Children, "profundidad 1 no incluye nietos")
	}

	full, err := uc.GetTree(ctx, raw.ID, 0, false)
	require.NoError(t, err)
	require.Len(t, full.Children, 2)
	assert.Len(t, full.Children[1].Children, 1)
}

func TestGetTree_SoloActivas(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	require.NoError(t, uc.Delete(ctx, steel.ID, false))

	tree, err := uc.GetTree(ctx, raw.ID, 3, true)
	require.NoError(t, err)
	assert.Empty(t, tree.Children)

	_, err = uc.GetTree(ctx, steel.ID, 3, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_ReactivarBajoPadreInactivo(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()

	raw := mustCreate(t, uc, "Raw Materials", "")
	steel := mustCreate(t, uc, "Steel", raw.ID)
	require.NoError(t, uc.Delete(ctx, raw.ID, true))

	_, err := uc.Update(ctx, steel.ID, dto.UpdateCategoryRequest{Status: ptr(entity.CategoryStatusActive)})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func seedProduct(t *testing.T, store *memory.Store, categoryID string) string {
	t.Helper()
	id := uuid.New().String()
	err := store.Run(context.Background(), func(r repository.Repos) error {
		return r.Products.Create(context.Background(), &entity.Product{
			ID:         id,
			SKU:        "SKU-" + id[:8],
			Name:       "Steel sheet 2mm",
			CategoryID: categoryID,
			Status:     entity.ProductStatusActive,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		})
	})
	require.NoError(t, err)
	return id
}
