package entity

// Tipos de entidad y de evento del canal de cambios en vivo.
const (
	DeltaEntityCategory = "category"
	DeltaEntityDish     = "dish"

	DeltaInsert = "INSERT"
	DeltaUpdate = "UPDATE"
	DeltaDelete = "DELETE"
)

// Delta cambio incremental empujado por el backend remoto.
// Record trae el registro crudo nuevo (INSERT/UPDATE); OldID identifica el borrado cuando Record está vacío.
type Delta struct {
	EntityType string
	EventType  string
	Record     map[string]any
	OldID      string
}
