package menu

import (
	"sort"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// Hierarchy bosque de categorías con conteos agregados.
type Hierarchy struct {
	Roots    []*entity.CategoryNode
	Dangling []string // ids de categorías cuyo parentId no existe (promovidas a raíz)
	Cycles   []string // ids atrapados en un ciclo de padres (promovidos a raíz)
}

// Find busca un nodo por id en todo el bosque.
func (h Hierarchy) Find(id string) *entity.CategoryNode {
	var walk func(nodes []*entity.CategoryNode) *entity.CategoryNode
	walk = func(nodes []*entity.CategoryNode) *entity.CategoryNode {
		for _, n := range nodes {
			if n.ID == id {
				return n
			}
			if found := walk(n.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(h.Roots)
}

// BuildHierarchy arma el bosque sobre el espacio de ids ya saneado. Una categoría es raíz si
// no tiene padre o si su padre no existe; un padre colgante nunca es error. Hijas y raíces se
// ordenan por nombre con less. AggregateCount = DirectCount + suma de AggregateCount de las hijas.
func BuildHierarchy(categories []entity.Category, counts Counts, less func(a, b string) bool) Hierarchy {
	nodes := make(map[string]*entity.CategoryNode, len(categories))
	order := make([]*entity.CategoryNode, 0, len(categories))
	for _, c := range categories {
		n := &entity.CategoryNode{Category: c, DirectCount: counts.ByCategory[c.ID]}
		nodes[c.ID] = n
		order = append(order, n)
	}

	var h Hierarchy
	parentOf := make(map[string]string, len(categories))
	for _, n := range order {
		parentID := cleanID(n.ParentID)
		if parentID == "" {
			h.Roots = append(h.Roots, n)
			continue
		}
		parent, ok := nodes[parentID]
		if !ok {
			h.Dangling = append(h.Dangling, n.ID)
			h.Roots = append(h.Roots, n)
			continue
		}
		if parentID == n.ID || createsCycle(parentOf, n.ID, parentID) {
			h.Cycles = append(h.Cycles, n.ID)
			h.Roots = append(h.Roots, n)
			continue
		}
		parentOf[n.ID] = parentID
		parent.Children = append(parent.Children, n)
	}

	sortNodes(h.Roots, less)
	for _, r := range h.Roots {
		aggregate(r)
	}
	return h
}

// createsCycle indica si enlazar child→parent cerraría un ciclo (child ya es ancestro de parent).
func createsCycle(parentOf map[string]string, child, parent string) bool {
	for cur, steps := parent, 0; cur != "" && steps <= len(parentOf); steps++ {
		if cur == child {
			return true
		}
		cur = parentOf[cur]
	}
	return false
}

func sortNodes(nodes []*entity.CategoryNode, less func(a, b string) bool) {
	if less != nil {
		sort.SliceStable(nodes, func(i, j int) bool { return less(nodes[i].Name, nodes[j].Name) })
	}
	for _, n := range nodes {
		sortNodes(n.Children, less)
	}
}

func aggregate(n *entity.CategoryNode) int {
	total := n.DirectCount
	for _, c := range n.Children {
		total += aggregate(c)
	}
	n.AggregateCount = total
	return total
}

// ShallowTotal conteo que muestra el menú de categorías: propio más el directo de cada hija.
func ShallowTotal(n *entity.CategoryNode) int {
	total := n.DirectCount
	for _, c := range n.Children {
		total += c.DirectCount
	}
	return total
}
