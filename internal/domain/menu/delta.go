package menu

import (
	"fmt"

	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
)

// RemoteSet mitad remota del estado fusionado; es lo único que los deltas pueden tocar.
type RemoteSet struct {
	Categories []entity.Category
	Dishes     []entity.Dish
}

// ApplyDelta aplica un cambio en vivo y devuelve un RemoteSet nuevo (la entrada no se modifica)
// junto con si hubo cambio efectivo.
//   - INSERT: agrega si el id no existe; si existe se trata como UPDATE
//   - UPDATE: reemplaza el registro con ese id; no-op si no existe
//   - DELETE: elimina el registro con ese id; no-op si no existe
func ApplyDelta(set RemoteSet, d entity.Delta) (RemoteSet, bool, error) {
	switch d.EntityType {
	case entity.DeltaEntityCategory:
		var rec entity.Category
		if d.Record != nil {
			rec = NormalizeCategory(d.Record)
		}
		id := deltaID(rec.ID, d.OldID, d.EventType)
		if id == "" {
			return set, false, fmt.Errorf("delta de categoría sin id: %w", domain.ErrInvalidInput)
		}
		rec.ID = id
		out, changed, err := applyTo(set.Categories, rec, id, d.EventType, func(c entity.Category) string { return c.ID })
		if err != nil {
			return set, false, err
		}
		return RemoteSet{Categories: out, Dishes: set.Dishes}, changed, nil

	case entity.DeltaEntityDish:
		var rec entity.Dish
		if d.Record != nil {
			rec = NormalizeDish(d.Record)
		}
		id := deltaID(rec.ID, d.OldID, d.EventType)
		if id == "" {
			return set, false, fmt.Errorf("delta de plato sin id: %w", domain.ErrInvalidInput)
		}
		rec.ID = id
		out, changed, err := applyTo(set.Dishes, rec, id, d.EventType, func(x entity.Dish) string { return x.ID })
		if err != nil {
			return set, false, err
		}
		return RemoteSet{Categories: set.Categories, Dishes: out}, changed, nil
	}
	return set, false, fmt.Errorf("tipo de entidad %q: %w", d.EntityType, domain.ErrInvalidInput)
}

// ApplyDeltas aplica un lote en orden. Los deltas inválidos se devuelven aparte y no detienen el lote.
func ApplyDeltas(set RemoteSet, batch []entity.Delta) (RemoteSet, int, []error) {
	applied := 0
	var errs []error
	for _, d := range batch {
		next, changed, err := ApplyDelta(set, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if changed {
			applied++
		}
		set = next
	}
	return set, applied, errs
}

// deltaID en DELETE el registro viejo puede venir solo en OldID.
func deltaID(recordID, oldID, event string) string {
	if event == entity.DeltaDelete {
		if id := cleanID(oldID); id != "" {
			return id
		}
	}
	if recordID != "" {
		return recordID
	}
	return cleanID(oldID)
}

func applyTo[T any](list []T, rec T, id, event string, idOf func(T) string) ([]T, bool, error) {
	idx := -1
	for i, x := range list {
		if idOf(x) == id {
			idx = i
			break
		}
	}
	switch event {
	case entity.DeltaInsert:
		if idx < 0 {
			out := make([]T, len(list), len(list)+1)
			copy(out, list)
			return append(out, rec), true, nil
		}
		return replaceAt(list, idx, rec), true, nil
	case entity.DeltaUpdate:
		if idx < 0 {
			return list, false, nil
		}
		return replaceAt(list, idx, rec), true, nil
	case entity.DeltaDelete:
		if idx < 0 {
			return list, false, nil
		}
		out := make([]T, 0, len(list)-1)
		out = append(out, list[:idx]...)
		return append(out, list[idx+1:]...), true, nil
	}
	return list, false, fmt.Errorf("tipo de evento %q: %w", event, domain.ErrInvalidInput)
}

func replaceAt[T any](list []T, idx int, rec T) []T {
	out := make([]T, len(list))
	copy(out, list)
	out[idx] = rec
	return out
}
