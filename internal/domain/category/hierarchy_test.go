package category_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/domain/category"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers: árbol en memoria indexado por ID
// ──────────────────────────────────────────────────────────────────────────────

type arena map[string]*entity.Category

func (a arena) add(id, parentID, name string) *entity.Category {
	c := &entity.Category{ID: id, Name: name, Status: entity.CategoryStatusActive}
	c.Place(a[parentID])
	a[id] = c
	return c
}

func (a arena) lookup(_ context.Context, id string) (*entity.Category, error) {
	return a[id], nil
}

func (a arena) children(_ context.Context, parentID string) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range a {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

// chain construye una cadena lineal c0 <- c1 <- ... <- c(n-1).
func chain(n int) arena {
	a := arena{}
	a.add("c0", "", "Nivel 0")
	for i := 1; i < n; i++ {
		a.add(fmt.Sprintf("c%d", i), fmt.Sprintf("c%d", i-1), fmt.Sprintf("Nivel %d", i))
	}
	return a
}

// ──────────────────────────────────────────────────────────────────────────────
// WouldCreateCycle
// ──────────────────────────────────────────────────────────────────────────────

func TestWouldCreateCycle_DescendienteOProprio(t *testing.T) {
	ctx := context.Background()
	for _, depth := range []int{1, 2, 10, 50} {
		a := chain(depth)
		for i := 0; i < depth; i++ {
			cycle, err := category.WouldCreateCycle(ctx, a.lookup, "c0", fmt.Sprintf("c%d", i))
			require.NoError(t, err)
			assert.True(t, cycle, "profundidad %d: c%d es descendiente de c0 (o c0 mismo)", depth, i)
		}
	}
}

func TestWouldCreateCycle_NodoAjenoEsValido(t *testing.T) {
	a := chain(5)
	a.add("x", "", "Otra raíz")

	cycle, err := category.WouldCreateCycle(context.Background(), a.lookup, "x", "c4")
	require.NoError(t, err)
	assert.False(t, cycle)

	cycle, err = category.WouldCreateCycle(context.Background(), a.lookup, "c3", "")
	require.NoError(t, err)
	assert.False(t, cycle, "mover a raíz nunca crea ciclo")
}

func TestWouldCreateCycle_TerminaConDatosCorruptos(t *testing.T) {
	a := arena{
		"a": {ID: "a", ParentID: "b"},
		"b": {ID: "b", ParentID: "a"},
		"z": {ID: "z"},
	}
	cycle, err := category.WouldCreateCycle(context.Background(), a.lookup, "z", "a")
	require.NoError(t, err)
	assert.False(t, cycle, "el bucle a<->b no contiene a z")
}

// ──────────────────────────────────────────────────────────────────────────────
// Descendants / RecomputePaths / Ancestors
// ──────────────────────────────────────────────────────────────────────────────

func TestDescendants_PadresAntesQueHijos(t *testing.T) {
	a := arena{}
	a.add("root", "", "Raw Materials")
	a.add("steel", "root", "Steel")
	a.add("wood", "root", "Wood")
	a.add("rebar", "steel", "Rebar")

	list, err := category.Descendants(context.Background(), a.children, "root")
	require.NoError(t, err)
	require.Len(t, list, 3)

	pos := map[string]int{}
	for i, c := range list {
		pos[c.ID] = i
	}
	assert.Less(t, pos["steel"], pos["rebar"])
}

func TestRecomputePaths_CascadaAlRenombrar(t *testing.T) {
	a := arena{}
	root := a.add("root", "", "Raw Materials")
	a.add("steel", "root", "Steel")
	a.add("rebar", "steel", "Rebar")

	root.Name = "Materias Primas"
	root.Place(nil)
	list, err := category.Descendants(context.Background(), a.children, "root")
	require.NoError(t, err)
	category.RecomputePaths(root, list)

	assert.Equal(t, "Materias Primas / Steel", a["steel"].Path)
	assert.Equal(t, "Materias Primas / Steel / Rebar", a["rebar"].Path)
	assert.Equal(t, 2, a["rebar"].Level)
}

func TestAncestors_Breadcrumb(t *testing.T) {
	a := chain(4)
	got, err := category.Ancestors(context.Background(), a.lookup, a["c3"])
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c0", got[0].ID)
	assert.Equal(t, "c2", got[2].ID)
}

func TestPlace_NivelYRuta(t *testing.T) {
	a := arena{}
	root := a.add("root", "", "Raw Materials")
	steel := a.add("steel", "root", "Steel")

	assert.Equal(t, 0, root.Level)
	assert.Equal(t, "Raw Materials", root.Path)
	assert.Equal(t, 1, steel.Level)
	assert.Equal(t, "Raw Materials / Steel", steel.Path)
	assert.Equal(t, "steel", steel.Slug)
}
