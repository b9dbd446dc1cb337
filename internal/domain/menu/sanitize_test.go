package menu_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
)

func TestSanitize_ReparaIDsAusentesYDuplicados(t *testing.T) {
	in := []entity.Category{
		{ID: "bebidas", Name: "Bebidas"},
		{ID: "", Name: "Pratos do Dia"},
		{ID: "bebidas", Name: "Bebidas 2"},
		{ID: "undefined", Name: ""},
	}

	out, report := menu.Sanitize(in)

	require.Len(t, out, 4)
	assert.Equal(t, "bebidas", out[0].ID)
	assert.Empty(t, out[0].OriginalID)
	assert.False(t, out[0].IsModified)

	assert.Equal(t, "fixed_1_pratos_do_dia", out[1].ID)
	assert.Empty(t, out[1].OriginalID)
	assert.True(t, out[1].IsModified)

	assert.Equal(t, "bebidas_dup_2", out[2].ID)
	assert.Equal(t, "bebidas", out[2].OriginalID)
	assert.True(t, out[2].IsModified)

	assert.Equal(t, "fixed_3_sem_nome", out[3].ID)
	assert.True(t, report.HasIssues())
	assert.Len(t, report.Fixed, 2)
	assert.Equal(t, []string{"bebidas"}, report.Duplicates)
}

func TestSanitize_IDGeneradoQueChocaConUnoReal(t *testing.T) {
	in := []entity.Category{
		{ID: "x", Name: "X"},
		{ID: "x_dup_2", Name: "Real"},
		{ID: "x", Name: "Otra X"},
	}
	out, _ := menu.Sanitize(in)
	assertUniqueIDs(t, out)
	assert.Equal(t, "x", out[2].OriginalID)
}

// Para cualquier lista, los ids de salida son distintos dos a dos.
func TestSanitize_PropiedadIDsUnicos(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := []string{"", "undefined", "null", "a", "b", "a_dup_1", "fixed_0_x", "c"}
	names := []string{"", "X", "Bebidas", "a"}
	for round := 0; round < 200; round++ {
		n := rng.Intn(12)
		in := make([]entity.Category, n)
		for i := range in {
			in[i] = entity.Category{ID: pool[rng.Intn(len(pool))], Name: names[rng.Intn(len(names))]}
		}
		out, _ := menu.Sanitize(in)
		require.Len(t, out, n)
		assertUniqueIDs(t, out)
	}
}

func assertUniqueIDs(t *testing.T, cats []entity.Category) {
	t.Helper()
	seen := map[string]bool{}
	for _, c := range cats {
		require.False(t, seen[c.ID], fmt.Sprintf("id repetido %q", c.ID))
		require.NotEmpty(t, c.ID)
		seen[c.ID] = true
	}
}
