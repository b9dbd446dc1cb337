package menu_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
)

func dishDelta(event string, record map[string]any, oldID string) entity.Delta {
	return entity.Delta{EntityType: entity.DeltaEntityDish, EventType: event, Record: record, OldID: oldID}
}

func TestApplyDelta_InsertUpdateDelete(t *testing.T) {
	set := menu.RemoteSet{Dishes: []entity.Dish{{ID: "a", Name: "A"}}}

	set, changed, err := menu.ApplyDelta(set, dishDelta(entity.DeltaInsert, map[string]any{"id": "b", "name": "B"}, ""))
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, set.Dishes, 2)

	set, changed, err = menu.ApplyDelta(set, dishDelta(entity.DeltaUpdate, map[string]any{"id": "a", "name": "A2"}, ""))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "A2", set.Dishes[0].Name)

	set, changed, err = menu.ApplyDelta(set, dishDelta(entity.DeltaDelete, nil, "a"))
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, set.Dishes, 1)
	assert.Equal(t, "b", set.Dishes[0].ID)
}

// Aplicar dos veces el mismo UPDATE deja el mismo estado que aplicarlo una vez.
func TestApplyDelta_UpdateIdempotente(t *testing.T) {
	base := menu.RemoteSet{Categories: []entity.Category{{ID: "c1", Name: "Old"}}}
	d := entity.Delta{EntityType: entity.DeltaEntityCategory, EventType: entity.DeltaUpdate, Record: map[string]any{"id": "c1", "name": "New"}}

	once, _, err := menu.ApplyDelta(base, d)
	require.NoError(t, err)
	twice, _, err := menu.ApplyDelta(once, d)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, "Old", base.Categories[0].Name, "la entrada no se modifica")
}

func TestApplyDelta_NoOps(t *testing.T) {
	set := menu.RemoteSet{Dishes: []entity.Dish{{ID: "a"}}}

	out, changed, err := menu.ApplyDelta(set, dishDelta(entity.DeltaUpdate, map[string]any{"id": "zz"}, ""))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, set, out)

	out, changed, err = menu.ApplyDelta(set, dishDelta(entity.DeltaDelete, nil, "zz"))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, set, out)
}

func TestApplyDelta_InsertExistenteReemplaza(t *testing.T) {
	set := menu.RemoteSet{Dishes: []entity.Dish{{ID: "a", Name: "A"}}}
	out, changed, err := menu.ApplyDelta(set, dishDelta(entity.DeltaInsert, map[string]any{"id": "a", "name": "A bis"}, ""))
	require.NoError(t, err)
	assert.True(t, changed)
	require.Len(t, out.Dishes, 1)
	assert.Equal(t, "A bis", out.Dishes[0].Name)
}

func TestApplyDelta_Invalidos(t *testing.T) {
	set := menu.RemoteSet{}

	_, _, err := menu.ApplyDelta(set, dishDelta(entity.DeltaInsert, map[string]any{"name": "sin id"}, ""))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, err = menu.ApplyDelta(set, entity.Delta{EntityType: "mesa", EventType: entity.DeltaInsert, Record: map[string]any{"id": "x"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, _, err = menu.ApplyDelta(set, dishDelta("TRUNCATE", map[string]any{"id": "x"}, ""))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestApplyDeltas_LoteConErrores(t *testing.T) {
	batch := []entity.Delta{
		dishDelta(entity.DeltaInsert, map[string]any{"id": "a"}, ""),
		dishDelta(entity.DeltaInsert, map[string]any{}, ""),
		dishDelta(entity.DeltaInsert, map[string]any{"id": "b"}, ""),
		dishDelta(entity.DeltaDelete, nil, "zz"),
	}
	out, applied, errs := menu.ApplyDeltas(menu.RemoteSet{}, batch)
	assert.Equal(t, 2, applied)
	assert.Len(t, errs, 1)
	assert.Len(t, out.Dishes, 2)
}
