package menu

import (
	"time"

	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

// Origen de la mitad remota del snapshot.
const (
	SourceRemote = "remote"
	SourceFeed   = "feed"
	SourceLocal  = "local"
)

// Snapshot estado completo del menú visible para los lectores en un instante. Inmutable una vez
// publicado: cualquier cambio (refresco o delta) construye uno nuevo.
type Snapshot struct {
	Version  uint64
	Source   string
	Settings ports.RestaurantSettings
	BuiltAt  time.Time

	LocalCategories []entity.Category
	LocalDishes     []entity.Dish
	Remote          menu.RemoteSet

	Dishes     []entity.Dish     // fusionados
	Categories []entity.Category // fusionadas, activas y saneadas
	Resolution menu.Resolution
	Hierarchy  menu.Hierarchy
	Sanitize   menu.SanitizeReport

	dishIndex map[string]int
}

// Counts conteos por categoría más TODOS.
func (s *Snapshot) Counts() menu.Counts {
	return s.Resolution.Counts
}

// Dish busca un plato fusionado por id.
func (s *Snapshot) Dish(id string) (entity.Dish, bool) {
	i, ok := s.dishIndex[id]
	if !ok {
		return entity.Dish{}, false
	}
	return s.Dishes[i], true
}

// AssignedCategory categoría a la que se resolvió el plato ("" si quedó sin categoría).
func (s *Snapshot) AssignedCategory(dishID string) string {
	i, ok := s.dishIndex[dishID]
	if !ok || i >= len(s.Resolution.Assignment) {
		return ""
	}
	return s.Resolution.Assignment[i]
}

// Empty indica si el snapshot no tiene platos ni categorías.
func (s *Snapshot) Empty() bool {
	return len(s.Dishes) == 0 && len(s.Categories) == 0
}

// snapshotInput piezas crudas con las que se construye un snapshot.
type snapshotInput struct {
	version         uint64
	source          string
	settings        ports.RestaurantSettings
	localCategories []entity.Category
	localDishes     []entity.Dish
	remote          menu.RemoteSet
}

// buildSnapshot ejecuta la tubería completa: fusión → síntesis → saneamiento → resolución → jerarquía.
// Los hallazgos de calidad de datos se registran como Warn; nunca abortan la construcción.
func buildSnapshot(in snapshotInput, less func(a, b string) bool, log *logger.Logger) *Snapshot {
	dishes := menu.MergeDishes(in.localDishes, in.remote.Dishes)
	merged := menu.MergeCategories(in.localCategories, in.remote.Categories)

	categories := make([]entity.Category, 0, len(merged))
	for _, c := range merged {
		if !c.IsActive || !c.IsVisibleOnDigitalMenu {
			continue
		}
		categories = append(categories, c)
	}
	if len(categories) == 0 && len(dishes) > 0 {
		categories = menu.SynthesizeCategories(dishes)
		log.Warn().Int("categories", len(categories)).Str("source", in.source).
			Msg("menú sin categorías: se generaron a partir de los platos")
	}

	sanitized, report := menu.Sanitize(categories)
	if report.HasIssues() {
		log.Warn().Strs("fixed", report.Fixed).Strs("duplicates", report.Duplicates).
			Msg("ids de categoría reparados")
	}

	res := menu.ResolveAll(dishes, sanitized)
	for _, d := range res.Unmatched {
		log.Warn().Str("dish_id", d.ID).Str("category_id", d.CategoryID).
			Msg("plato sin categoría: visible solo en TODOS")
	}

	h := menu.BuildHierarchy(sanitized, res.Counts, less)
	if len(h.Dangling) > 0 {
		log.Warn().Strs("categories", h.Dangling).Msg("categorías con padre inexistente promovidas a raíz")
	}
	if len(h.Cycles) > 0 {
		log.Warn().Strs("categories", h.Cycles).Msg("ciclo de padres en categorías: promovidas a raíz")
	}

	index := make(map[string]int, len(dishes))
	for i, d := range dishes {
		if _, ok := index[d.ID]; !ok {
			index[d.ID] = i
		}
	}

	return &Snapshot{
		Version:         in.version,
		Source:          in.source,
		Settings:        in.settings,
		BuiltAt:         time.Now(),
		LocalCategories: in.localCategories,
		LocalDishes:     in.localDishes,
		Remote:          in.remote,
		Dishes:          dishes,
		Categories:      sanitized,
		Resolution:      res,
		Hierarchy:       h,
		Sanitize:        report,
		dishIndex:       index,
	}
}
