package menu

import (
	"fmt"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

// SanitizeReport ids reparados durante el saneamiento, para registrar como problema de calidad de datos.
type SanitizeReport struct {
	Fixed      []string // ids nuevos asignados a categorías sin id
	Duplicates []string // ids originales repetidos
}

// HasIssues indica si hubo alguna reparación.
func (r SanitizeReport) HasIssues() bool {
	return len(r.Fixed) > 0 || len(r.Duplicates) > 0
}

// Sanitize garantiza ids únicos recorriendo las categorías en orden (índice i):
//   - id ausente o placeholder → fixed_{i}_{slug(nombre)}, OriginalID vacío
//   - id ya visto → {id}_dup_{i}, OriginalID = id original
//   - resto → sin cambios, OriginalID vacío
//
// No es idempotente si la entrada cambia de orden: los ids generados dependen de la posición.
func Sanitize(categories []entity.Category) ([]entity.Category, SanitizeReport) {
	out := make([]entity.Category, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	var report SanitizeReport

	for i, c := range categories {
		raw := cleanID(c.ID)
		c.OriginalID = ""
		c.IsModified = false

		switch {
		case raw == "":
			name := c.Name
			if textnorm.Clean(name) == "" {
				name = "sem_nome"
			}
			c.ID = fmt.Sprintf("fixed_%d_%s", i, textnorm.Slug(name, "_"))
			c.IsModified = true
			report.Fixed = append(report.Fixed, c.ID)
		case isSeen(seen, raw):
			c.ID = fmt.Sprintf("%s_dup_%d", raw, i)
			c.OriginalID = raw
			c.IsModified = true
			report.Duplicates = append(report.Duplicates, raw)
		default:
			c.ID = raw
		}

		// Un id generado puede chocar con uno real ya visto.
		for isSeen(seen, c.ID) {
			c.ID = fmt.Sprintf("%s_dup_%d", c.ID, i)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, report
}

func isSeen(seen map[string]struct{}, id string) bool {
	_, ok := seen[id]
	return ok
}
