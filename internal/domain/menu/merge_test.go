package menu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
)

// Fusionar local=[A,B] con remoto=[B',C] produce [A,B,C] y B conserva los campos locales.
func TestMergeDishes_PrecedenciaLocal(t *testing.T) {
	local := []entity.Dish{{ID: "A", Name: "Local A"}, {ID: "B", Name: "Local B"}}
	remote := []entity.Dish{{ID: "B", Name: "Remote B"}, {ID: "C", Name: "Remote C"}}

	merged := menu.MergeDishes(local, remote)

	require.Len(t, merged, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
	assert.Equal(t, "Local B", merged[1].Name)
}

func TestMergeCategories_NoModificaEntradas(t *testing.T) {
	local := []entity.Category{{ID: "x", Name: "X"}}
	remote := []entity.Category{{ID: "y", Name: "Y"}}

	merged := menu.MergeCategories(local, remote)
	merged[0].Name = "cambiado"

	assert.Equal(t, "X", local[0].Name)
	assert.Len(t, merged, 2)
}

func TestMerge_AmbasVacias(t *testing.T) {
	assert.Empty(t, menu.MergeDishes(nil, nil))
	assert.Empty(t, menu.MergeCategories(nil, nil))
}

func TestSynthesizeCategories_UnaPorClaveDistinta(t *testing.T) {
	dishes := []entity.Dish{
		{ID: "1", CategoryID: "bebidas"},
		{ID: "2", CategoryID: " bebidas "},
		{ID: "3", CategoryName: "Pratos Quentes"},
		{ID: "4"},
	}

	cats := menu.SynthesizeCategories(dishes)

	require.Len(t, cats, 3)
	assert.Equal(t, "bebidas", cats[0].ID)
	assert.Equal(t, "pratos_quentes", cats[1].ID)
	assert.Equal(t, "Pratos Quentes", cats[1].Name)
	assert.Equal(t, menu.UncategorizedID, cats[2].ID)
	for _, c := range cats {
		assert.True(t, c.Synthetic)
		assert.Empty(t, c.OriginalID)
	}
}
