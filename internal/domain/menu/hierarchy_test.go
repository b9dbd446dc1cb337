package menu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

// Tres niveles: abuelo → padre → hijo, un plato directo en cada uno.
func TestBuildHierarchy_TresNiveles(t *testing.T) {
	cats := []entity.Category{
		{ID: "hijo", Name: "Hijo", ParentID: "padre"},
		{ID: "abuelo", Name: "Abuelo"},
		{ID: "padre", Name: "Padre", ParentID: "abuelo"},
	}
	dishes := []entity.Dish{
		{ID: "1", CategoryID: "abuelo"},
		{ID: "2", CategoryID: "padre"},
		{ID: "3", CategoryID: "hijo"},
	}
	counts := menu.CategoryCounts(dishes, cats)

	h := menu.BuildHierarchy(cats, counts, textnorm.NewCollation("pt").Less())

	require.Len(t, h.Roots, 1)
	root := h.Roots[0]
	assert.Equal(t, "abuelo", root.ID)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "padre", root.Children[0].ID)
	require.Len(t, root.Children[0].Children, 1)

	assert.Equal(t, 1, root.DirectCount)
	assert.Equal(t, 3, root.AggregateCount, "el agregado suma todos los descendientes")
	assert.Equal(t, 2, h.Find("padre").AggregateCount)
	assert.Equal(t, 1, h.Find("hijo").AggregateCount)
	assert.Equal(t, 2, menu.ShallowTotal(root), "el total superficial solo baja un nivel")
	assert.Empty(t, h.Dangling)
	assert.Empty(t, h.Cycles)
}

func TestBuildHierarchy_PadreColganteEsRaiz(t *testing.T) {
	cats := []entity.Category{
		{ID: "a", Name: "B-cat", ParentID: "no-existe"},
		{ID: "b", Name: "A-cat"},
	}
	h := menu.BuildHierarchy(cats, menu.Counts{ByCategory: map[string]int{}}, textnorm.NewCollation("pt").Less())

	require.Len(t, h.Roots, 2)
	assert.Equal(t, "b", h.Roots[0].ID, "raíces ordenadas por nombre")
	assert.Equal(t, []string{"a"}, h.Dangling)
}

func TestBuildHierarchy_CicloNoCuelga(t *testing.T) {
	cats := []entity.Category{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C", ParentID: "c"},
	}
	h := menu.BuildHierarchy(cats, menu.Counts{ByCategory: map[string]int{"a": 1, "b": 2}}, nil)

	assert.ElementsMatch(t, []string{"b", "c"}, h.Cycles)
	require.Len(t, h.Roots, 2)
	b := h.Find("b")
	require.NotNil(t, b)
	assert.Equal(t, 3, b.AggregateCount)
	assert.Nil(t, h.Find("zz"))
}
