package entity

// Category categoría del menú digital ya en forma canónica.
// ID debería ser único pero la fuente no lo garantiza; tras el saneamiento sí lo es.
type Category struct {
	ID                     string
	OriginalID             string // id previo al saneamiento; vacío si no se modificó
	Name                   string
	ParentID               string // vacío si es raíz
	SortOrder              int
	IsActive               bool
	IsVisibleOnDigitalMenu bool
	Icon                   string
	IsModified             bool // el saneador reemplazó el id
	Synthetic              bool // generada a partir de los platos, sin registro de origen
}

// CategoryNode categoría con sus hijas ordenadas. Solo la construye el HierarchyBuilder; no se persiste.
type CategoryNode struct {
	Category
	Children       []*CategoryNode
	DirectCount    int
	AggregateCount int // DirectCount + suma de AggregateCount de las hijas
}
