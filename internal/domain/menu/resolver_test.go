package menu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

// ─── Niveles de coincidencia ──────────────────────────────────────────────────

func TestMatchingTier(t *testing.T) {
	cases := []struct {
		name string
		dish entity.Dish
		cat  entity.Category
		tier string
		ok   bool
	}{
		{"id exacto", entity.Dish{CategoryID: "c1"}, entity.Category{ID: "c1", Name: "Bebidas"}, "exact_id", true},
		{"id exacto distingue mayúsculas", entity.Dish{CategoryID: "C1"}, entity.Category{ID: "c1", Name: "Bebidas"}, "", false},
		{"id original tras saneamiento", entity.Dish{CategoryID: "c1"}, entity.Category{ID: "c1_dup_3", OriginalID: "c1", IsModified: true, Name: "Outra"}, "original_id", true},
		{"id usado como nombre", entity.Dish{CategoryID: "bebidas"}, entity.Category{ID: "x9", Name: "Bebidas"}, "id_as_name", true},
		{"nombre de categoría", entity.Dish{CategoryID: "zz", CategoryName: " BEBIDAS"}, entity.Category{ID: "x9", Name: "Bebidas"}, "category_name", true},
		{"slug con guion bajo", entity.Dish{CategoryID: "pratos_quentes"}, entity.Category{ID: "x9", Name: "Pratos Quentes"}, "slug", true},
		{"slug con guion", entity.Dish{CategoryID: "Pratos-Quentes"}, entity.Category{ID: "x9", Name: "Pratos Quentes"}, "slug", true},
		{"huérfano en categoría reparada", entity.Dish{CategoryID: "undefined"}, entity.Category{ID: "fixed_0_sem_nome", IsModified: true}, "orphan", true},
		{"huérfano en sintética", entity.Dish{}, entity.Category{ID: menu.UncategorizedID, Synthetic: true}, "orphan", true},
		{"huérfano no cae en categoría real", entity.Dish{}, entity.Category{ID: "c1", Name: "Bebidas"}, "", false},
		{"duplicado no acepta huérfanos", entity.Dish{}, entity.Category{ID: "c1_dup_1", OriginalID: "c1", IsModified: true}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tier, ok := menu.MatchingTier(tc.dish, tc.cat)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.tier, tier)
			assert.Equal(t, tc.ok, menu.Resolve(tc.dish, tc.cat))
		})
	}
}

// Si dish.categoryId coincide exactamente con un id saneado, esa categoría acepta el plato
// por el primer nivel. La asignación final respeta el orden de las categorías.
func TestResolveCategory_IDExacto(t *testing.T) {
	exact := entity.Category{ID: "c1", Name: "Bebidas"}
	byName := entity.Category{ID: "x9", Name: "c1"}
	dish := entity.Dish{CategoryID: "c1"}

	tier, ok := menu.MatchingTier(dish, exact)
	require.True(t, ok)
	assert.Equal(t, "exact_id", tier)

	c, ok := menu.ResolveCategory(dish, []entity.Category{exact, byName})
	require.True(t, ok)
	assert.Equal(t, "c1", c.ID)

	c, ok = menu.ResolveCategory(dish, []entity.Category{byName, exact})
	require.True(t, ok)
	assert.Equal(t, "x9", c.ID)
}

// ─── Conteos ──────────────────────────────────────────────────────────────────

func TestResolveAll_TodosIgualAlTotalYSinDobleConteo(t *testing.T) {
	cats := []entity.Category{
		{ID: "bebidas", Name: "Bebidas"},
		{ID: "b2", Name: "bebidas"},
		{ID: "carnes", Name: "Carnes"},
	}
	dishes := []entity.Dish{
		{ID: "1", CategoryID: "bebidas"},
		{ID: "2", CategoryID: "bebidas"},
		{ID: "3", CategoryID: "carnes"},
		{ID: "4", CategoryID: "sobremesas"},
		{ID: "5"},
	}

	res := menu.ResolveAll(dishes, cats)

	assert.Equal(t, len(dishes), res.Counts.All)
	assert.Equal(t, len(dishes), res.Counts.Get(menu.AllKey))
	assert.Equal(t, 2, res.Counts.Get("bebidas"))
	assert.Equal(t, 0, res.Counts.Get("b2"), "un plato cuenta solo en la primera categoría")
	assert.Equal(t, 1, res.Counts.Get("carnes"))
	assert.Equal(t, []string{"bebidas", "bebidas", "carnes", "", ""}, res.Assignment)
	require.Len(t, res.Unmatched, 2)

	sum := 0
	for _, n := range res.Counts.ByCategory {
		sum += n
	}
	assert.LessOrEqual(t, sum, res.Counts.All)

	m := res.Counts.AsMap()
	assert.Equal(t, 5, m[menu.AllKey])
	assert.Contains(t, m, "b2")
}

func TestCategoryCounts_MenuVacio(t *testing.T) {
	counts := menu.CategoryCounts(nil, nil)
	assert.Equal(t, 0, counts.All)
	assert.Empty(t, counts.ByCategory)
}

// Categoría saneada desde un id ausente más un plato sin categoría: el plato cae ahí por el nivel huérfano.
func TestResolveAll_HuerfanoCaeEnCategoriaReparada(t *testing.T) {
	cats, _ := menu.Sanitize([]entity.Category{{ID: "", Name: "Diversos"}})
	require.Len(t, cats, 1)
	dishes := menu.NormalizeDishes([]map[string]any{{"id": "d1", "name": "Pão", "category_id": "undefined"}})

	res := menu.ResolveAll(dishes, cats)

	assert.Equal(t, 1, res.Counts.Get(cats[0].ID))
	assert.Empty(t, res.Unmatched)
}

// ─── Vistas ───────────────────────────────────────────────────────────────────

func TestFilterDishes(t *testing.T) {
	cats := []entity.Category{{ID: "bebidas", Name: "Bebidas"}, {ID: "carnes", Name: "Carnes"}}
	dishes := []entity.Dish{
		{ID: "1", Name: "Sumo", CategoryID: "bebidas", Description: "laranja natural"},
		{ID: "2", Name: "Água", CategoryID: "bebidas"},
		{ID: "3", Name: "Bitoque", CategoryID: "carnes"},
		{ID: "4", Name: "Gelado", CategoryID: "sobremesas"},
	}
	res := menu.ResolveAll(dishes, cats)
	less := textnorm.NewCollation("pt").Less()

	ids := func(ds []entity.Dish) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}

	t.Run("todos ordenados por nombre", func(t *testing.T) {
		got := menu.FilterDishes(dishes, cats, res, menu.DishQuery{CategoryID: menu.AllKey}, less)
		assert.Equal(t, []string{"2", "3", "4", "1"}, ids(got))
	})
	t.Run("vista coincide con el conteo", func(t *testing.T) {
		got := menu.FilterDishes(dishes, cats, res, menu.DishQuery{CategoryID: "bebidas"}, less)
		assert.Len(t, got, res.Counts.Get("bebidas"))
	})
	t.Run("categoría desconocida compara el id del plato", func(t *testing.T) {
		got := menu.FilterDishes(dishes, cats, res, menu.DishQuery{CategoryID: "SOBREMESAS"}, less)
		assert.Equal(t, []string{"4"}, ids(got))
	})
	t.Run("búsqueda en descripción", func(t *testing.T) {
		got := menu.FilterDishes(dishes, cats, res, menu.DishQuery{Search: "LARANJA"}, less)
		assert.Equal(t, []string{"1"}, ids(got))
	})
}

func TestDishesInCategory(t *testing.T) {
	cats := []entity.Category{{ID: "c1", Name: "Bebidas"}}
	dishes := []entity.Dish{{ID: "b", CategoryID: "c1"}, {ID: "x"}, {ID: "a", CategoryID: "bebidas"}}

	got := menu.DishesInCategory(dishes, cats, "c1")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Len(t, menu.DishesInCategory(dishes, cats, menu.AllKey), 3)
}
