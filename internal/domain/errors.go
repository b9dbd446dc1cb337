package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrOrderNotFound     = errors.New("pedido no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSourceUnavailable = errors.New("fuente de menú no disponible")
	ErrMenuEmpty         = errors.New("el menú digital está vacío o aún no fue publicado")
)

// StockViolationError rechazo de negocio: uno o más ítems sin stock suficiente.
// MissingItems sigue el formato "<nombre> (Disponível: <cantidad>)".
type StockViolationError struct {
	MissingItems []string
}

func (e *StockViolationError) Error() string {
	return "Stock insuficiente: " + strings.Join(e.MissingItems, ", ")
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *StockViolationError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// SourceErrorKind categorías de fallo del backend remoto visibles para el usuario.
type SourceErrorKind string

const (
	SourceConfigMissing  SourceErrorKind = "config_missing"
	SourceNetwork        SourceErrorKind = "network"
	SourceAccessDenied   SourceErrorKind = "access_denied"
	SourceSchemaMismatch SourceErrorKind = "schema_mismatch"
	SourceUnknown        SourceErrorKind = "unknown"
)

// SourceError fallo clasificado al obtener el menú remoto. Siempre es reintentable.
type SourceError struct {
	Kind SourceErrorKind
	Err  error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return e.Message()
	}
	return fmt.Sprintf("%s: %v", e.Message(), e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrSourceUnavailable).
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Message texto para el cliente según la categoría.
func (e *SourceError) Message() string {
	switch e.Kind {
	case SourceConfigMissing:
		return "Configuração do backend remoto em falta ou inválida para este ambiente."
	case SourceNetwork:
		return "Falha de rede ou CORS ao contactar o backend remoto."
	case SourceAccessDenied:
		return "Acesso bloqueado por permissões insuficientes no backend remoto."
	case SourceSchemaMismatch:
		return "Esquema do backend remoto incompatível com o build atual."
	default:
		return "Falha ao carregar menu remoto"
	}
}
