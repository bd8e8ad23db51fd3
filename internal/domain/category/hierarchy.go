// Package category contiene los recorridos del árbol de categorías. Los nodos se resuelven por ID
// contra el almacenamiento; ningún recorrido usa recursión sobre datos persistidos.
package category

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// NodeLookup resuelve una categoría por ID (nil, nil si no existe).
type NodeLookup func(ctx context.Context, id string) (*entity.Category, error)

// ChildrenLookup lista los hijos directos de una categoría.
type ChildrenLookup func(ctx context.Context, parentID string) ([]*entity.Category, error)

// WouldCreateCycle recorre la cadena de ancestros desde newParentID buscando id.
// Termina al llegar a una raíz, a un nodo inexistente o a un nodo ya visitado (datos corruptos).
func WouldCreateCycle(ctx context.Context, lookup NodeLookup, id, newParentID string) (bool, error) {
	visited := make(map[string]struct{})
	current := newParentID
	for current != "" {
		if current == id {
			return true, nil
		}
		if _, seen := visited[current]; seen {
			return false, nil
		}
		visited[current] = struct{}{}

		node, err := lookup(ctx, current)
		if err != nil {
			return false, err
		}
		if node == nil {
			return false, nil
		}
		current = node.ParentID
	}
	return false, nil
}

// Ancestors devuelve la cadena raíz -> ... -> padre de node (sin incluirlo).
func Ancestors(ctx context.Context, lookup NodeLookup, node *entity.Category) ([]*entity.Category, error) {
	var chain []*entity.Category
	visited := map[string]struct{}{node.ID: {}}
	current := node.ParentID
	for current != "" {
		if _, seen := visited[current]; seen {
			break
		}
		visited[current] = struct{}{}
		parent, err := lookup(ctx, current)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		chain = append(chain, parent)
		current = parent.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Descendants recorre el subárbol de rootID en anchura. El orden garantiza que todo
// padre aparece antes que sus hijos; invertido sirve como post-orden.
func Descendants(ctx context.Context, children ChildrenLookup, rootID string) ([]*entity.Category, error) {
	var out []*entity.Category
	visited := map[string]struct{}{rootID: {}}
	queue := []string{rootID}
	for len(queue) > 0 {
		parentID := queue[0]
		queue = queue[1:]
		list, err := children(ctx, parentID)
		if err != nil {
			return nil, err
		}
		for _, c := range list {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			visited[c.ID] = struct{}{}
			out = append(out, c)
			queue = append(queue, c.ID)
		}
	}
	return out, nil
}

// RecomputePaths recalcula nivel y ruta de los descendientes a partir de root ya reubicado.
// descendants debe venir en el orden de Descendants.
func RecomputePaths(root *entity.Category, descendants []*entity.Category) {
	byID := map[string]*entity.Category{root.ID: root}
	for _, d := range descendants {
		if parent, ok := byID[d.ParentID]; ok {
			d.Place(parent)
		}
		byID[d.ID] = d
	}
}
