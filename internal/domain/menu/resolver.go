package menu

import (
	"sort"
	"strings"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

// AllKey clave del agregado "todos los platos" en los conteos y en el filtro de vista.
const AllKey = "TODOS"

// Tier predicado puro de un nivel de coincidencia plato→categoría.
type Tier struct {
	Name  string
	Match func(d entity.Dish, c entity.Category) bool
}

// MatchTiers orden fijo de los niveles; el primero que coincide decide.
// Cambiar el orden cambia qué categoría se queda con cada plato.
var MatchTiers = []Tier{
	{Name: "exact_id", Match: matchExactID},
	{Name: "original_id", Match: matchOriginalID},
	{Name: "id_as_name", Match: matchIDAsName},
	{Name: "category_name", Match: matchCategoryName},
	{Name: "slug", Match: matchSlug},
	{Name: "orphan", Match: matchOrphan},
}

// Resolve indica si el plato pertenece a la categoría según algún nivel.
func Resolve(d entity.Dish, c entity.Category) bool {
	_, ok := MatchingTier(d, c)
	return ok
}

// MatchingTier devuelve el nombre del primer nivel que coincide.
func MatchingTier(d entity.Dish, c entity.Category) (string, bool) {
	for _, t := range MatchTiers {
		if t.Match(d, c) {
			return t.Name, true
		}
	}
	return "", false
}

// ResolveCategory primera categoría (en orden de entrada) a la que pertenece el plato.
func ResolveCategory(d entity.Dish, categories []entity.Category) (entity.Category, bool) {
	for _, c := range categories {
		if Resolve(d, c) {
			return c, true
		}
	}
	return entity.Category{}, false
}

// 1. dish.categoryId == category.id, sensible a mayúsculas tras recortar.
func matchExactID(d entity.Dish, c entity.Category) bool {
	dishCat := cleanID(d.CategoryID)
	catID := cleanID(c.ID)
	return dishCat != "" && catID != "" && dishCat == catID
}

// 2. dish.categoryId == category.originalId: recupera coincidencias rotas por el saneamiento.
func matchOriginalID(d entity.Dish, c entity.Category) bool {
	dishCat := cleanID(d.CategoryID)
	orig := cleanID(c.OriginalID)
	return dishCat != "" && orig != "" && dishCat == orig
}

// 3a. dish.categoryId == category.name (sin distinguir mayúsculas).
func matchIDAsName(d entity.Dish, c entity.Category) bool {
	dishCat := cleanID(d.CategoryID)
	name := textnorm.Fold(c.Name)
	return dishCat != "" && name != "" && textnorm.Fold(dishCat) == name
}

// 3b. dish.categoryName == category.name.
func matchCategoryName(d entity.Dish, c entity.Category) bool {
	dishName := textnorm.Fold(d.CategoryName)
	name := textnorm.Fold(c.Name)
	return dishName != "" && name != "" && dishName == name
}

// 3c. dish.categoryId == slug(category.name) con '_' o '-'.
func matchSlug(d entity.Dish, c entity.Category) bool {
	dishCat := cleanID(d.CategoryID)
	if dishCat == "" || textnorm.Clean(c.Name) == "" {
		return false
	}
	folded := textnorm.Fold(dishCat)
	return folded == textnorm.Fold(textnorm.Slug(c.Name, "_")) ||
		folded == textnorm.Fold(textnorm.Slug(c.Name, "-"))
}

// 4. Huérfanos: un plato sin categoría cae en la categoría sin id real (id placeholder,
// id reparado sin OriginalID, o la categoría sintética "sem_categoria").
func matchOrphan(d entity.Dish, c entity.Category) bool {
	if !IsPlaceholderID(d.CategoryID) {
		return false
	}
	if IsPlaceholderID(c.ID) {
		return true
	}
	if c.IsModified && IsPlaceholderID(c.OriginalID) {
		return true
	}
	return c.Synthetic && c.ID == UncategorizedID
}

// ── Conteos y asignación ──────────────────────────────────────────────────────

// Counts conteo de platos por categoría más el agregado de todos los platos.
type Counts struct {
	All        int
	ByCategory map[string]int
}

// Get devuelve el conteo de la clave; AllKey devuelve el agregado.
func (c Counts) Get(key string) int {
	if key == AllKey {
		return c.All
	}
	return c.ByCategory[key]
}

// AsMap representación plana con AllKey incluida (forma que consume la vista del menú).
func (c Counts) AsMap() map[string]int {
	m := make(map[string]int, len(c.ByCategory)+1)
	for k, v := range c.ByCategory {
		m[k] = v
	}
	m[AllKey] = c.All
	return m
}

// Resolution resultado de asignar todos los platos: conteos, categoría asignada a cada
// plato (alineada con la lista de entrada; "" si no se resolvió) y platos sin categoría.
type Resolution struct {
	Counts     Counts
	Assignment []string
	Unmatched  []entity.Dish
}

// ResolveAll asigna cada plato a la primera categoría que lo acepta. Un plato nunca cuenta en
// más de una categoría. Los que no coinciden con ninguna siguen contando en el agregado
// (política: visibles solo bajo TODOS).
func ResolveAll(dishes []entity.Dish, categories []entity.Category) Resolution {
	res := Resolution{
		Counts: Counts{
			All:        len(dishes),
			ByCategory: make(map[string]int, len(categories)),
		},
		Assignment: make([]string, len(dishes)),
	}
	for _, c := range categories {
		res.Counts.ByCategory[c.ID] = 0
	}
	for i, d := range dishes {
		c, ok := ResolveCategory(d, categories)
		if !ok {
			res.Unmatched = append(res.Unmatched, d)
			continue
		}
		res.Assignment[i] = c.ID
		res.Counts.ByCategory[c.ID]++
	}
	return res
}

// CategoryCounts atajo de ResolveAll cuando solo interesan los conteos.
func CategoryCounts(dishes []entity.Dish, categories []entity.Category) Counts {
	return ResolveAll(dishes, categories).Counts
}

// ── Vistas filtradas ──────────────────────────────────────────────────────────

// DishQuery filtro de la vista de platos.
type DishQuery struct {
	CategoryID string // AllKey o vacío = todos
	Search     string // nombre o descripción, sin distinguir mayúsculas
}

// FilterDishes aplica categoría y búsqueda usando la asignación ya calculada, de modo que
// la vista de una categoría coincide siempre con su conteo. Si la categoría no existe en el
// conjunto saneado se compara el id del plato directamente. El resultado se ordena por nombre con less.
func FilterDishes(dishes []entity.Dish, categories []entity.Category, res Resolution, q DishQuery, less func(a, b string) bool) []entity.Dish {
	catID := strings.TrimSpace(q.CategoryID)
	all := catID == "" || catID == AllKey
	known := false
	if !all {
		for _, c := range categories {
			if c.ID == catID {
				known = true
				break
			}
		}
	}
	search := textnorm.Fold(q.Search)

	out := make([]entity.Dish, 0)
	for i, d := range dishes {
		switch {
		case all:
		case known:
			if i >= len(res.Assignment) || res.Assignment[i] != catID {
				continue
			}
		default:
			if !textnorm.EqualFold(d.CategoryID, catID) {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(textnorm.Fold(d.Name), search) &&
			!strings.Contains(textnorm.Fold(d.Description), search) {
			continue
		}
		out = append(out, d)
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i].Name, out[j].Name) })
	}
	return out
}

// DishesInCategory platos asignados a la categoría (AllKey devuelve todos), en el orden de entrada.
func DishesInCategory(dishes []entity.Dish, categories []entity.Category, categoryID string) []entity.Dish {
	return FilterDishes(dishes, categories, ResolveAll(dishes, categories), DishQuery{CategoryID: categoryID}, nil)
}
