package menu

import (
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

const (
	// UncategorizedID id de la categoría sintética que agrupa platos sin categoría.
	UncategorizedID   = "sem_categoria"
	uncategorizedName = "Sem Categoria"
)

// mergeByID devuelve local ++ (elementos de remote cuyo id no aparece en local).
// El catálogo local es autoritativo: en colisión de id siempre gana.
func mergeByID[T any](local, remote []T, id func(T) string) []T {
	out := make([]T, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local))
	for _, l := range local {
		seen[id(l)] = struct{}{}
		out = append(out, l)
	}
	for _, r := range remote {
		if _, ok := seen[id(r)]; ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MergeCategories fusiona categorías locales y remotas (el feed secundario se trata como otro remoto).
func MergeCategories(local, remote []entity.Category) []entity.Category {
	return mergeByID(local, remote, func(c entity.Category) string { return c.ID })
}

// MergeDishes fusiona platos locales y remotos con la misma regla.
func MergeDishes(local, remote []entity.Dish) []entity.Dish {
	return mergeByID(local, remote, func(d entity.Dish) string { return d.ID })
}

// SynthesizeCategories genera una categoría por cada clave distinta de los platos cuando la
// fusión no dejó ninguna categoría. Clave: CategoryID recortado, o slug de CategoryName,
// o UncategorizedID. El orden sigue la primera aparición.
func SynthesizeCategories(dishes []entity.Dish) []entity.Category {
	out := make([]entity.Category, 0)
	seen := make(map[string]struct{})
	for _, d := range dishes {
		rawID := cleanID(d.CategoryID)
		name := textnorm.Clean(d.CategoryName)
		if name == "" {
			name = rawID
		}
		if name == "" {
			name = uncategorizedName
		}
		id := rawID
		if id == "" {
			id = textnorm.Slug(name, "_")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, entity.Category{
			ID:                     id,
			Name:                   name,
			IsActive:               true,
			IsVisibleOnDigitalMenu: true,
			Synthetic:              true,
		})
	}
	return out
}
