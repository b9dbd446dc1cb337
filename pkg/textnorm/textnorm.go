// Package textnorm reúne la normalización de texto usada para comparar identificadores
// y nombres de categorías que llegan de fuentes distintas (catálogo local, backend
// remoto, feed estático): recorte, plegado de mayúsculas, slugs y ordenación por idioma.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean recorta espacios y normaliza a NFC para que "ã" compuesto y descompuesto coincidan.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Fold devuelve la forma plegada (case-insensitive) de s ya recortada.
// cases.Caser no es seguro entre goroutines, por eso se crea por llamada.
func Fold(s string) string {
	return cases.Fold().String(Clean(s))
}

// EqualFold compara dos textos ignorando mayúsculas y espacios de los extremos.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Slug pasa a minúsculas y sustituye cada secuencia de espacios por sep.
// No elimina acentos: los ids de categoría del origen los conservan.
func Slug(s string, sep string) string {
	lower := cases.Lower(language.Und).String(Clean(s))
	return whitespaceRe.ReplaceAllString(lower, sep)
}

// Collation ordena nombres según el idioma configurado, sin distinguir mayúsculas.
type Collation struct {
	tag language.Tag
}

// NewCollation interpreta un tag BCP 47; si es inválido usa portugués.
func NewCollation(locale string) Collation {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Portuguese
	}
	return Collation{tag: tag}
}

// Less devuelve una función de comparación lista para sort.SliceStable.
// El collator interno no es seguro para uso concurrente: cada llamada crea el suyo.
func (c Collation) Less() func(a, b string) bool {
	col := collate.New(c.tag, collate.IgnoreCase)
	return func(a, b string) bool {
		return col.CompareString(a, b) < 0
	}
}

// Tag devuelve el idioma efectivo.
func (c Collation) Tag() language.Tag {
	return c.tag
}
