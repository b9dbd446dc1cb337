package menu

import (
	"errors"
	"time"

	"github.com/jhoicas/menu-engine/internal/domain"
)

// Estados de la sincronización con el backend remoto.
const (
	StateIdle     = "idle"
	StateRetrying = "retrying"
	StateFailed   = "failed"
	StateOK       = "ok"
)

// SyncStatus estado observable de la sincronización.
type SyncStatus struct {
	State         string
	Retries       int
	Source        string
	LastError     error
	LastSuccessAt time.Time
	LastErrorAt   time.Time
}

// LastErrorKind categoría del último error del remoto ("" si no hubo o no está clasificado).
func (s SyncStatus) LastErrorKind() domain.SourceErrorKind {
	var se *domain.SourceError
	if errors.As(s.LastError, &se) {
		return se.Kind
	}
	return ""
}

// Status devuelve una copia del estado de sincronización.
func (e *Engine) Status() SyncStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// recordAttempt registra el resultado de un intento contra el remoto. Sin remoto configurado el
// estado queda en idle y solo se actualiza el origen.
func (e *Engine) recordAttempt(remoteErr error, source string) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.Source = source
	if e.remote == nil {
		return
	}
	now := time.Now()
	if remoteErr == nil {
		e.status.State = StateOK
		e.status.Retries = 0
		e.status.LastError = nil
		e.status.LastSuccessAt = now
		return
	}
	e.status.State = StateFailed
	e.status.LastError = remoteErr
	e.status.LastErrorAt = now
}

func (e *Engine) setState(state string, retries int) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.State = state
	e.status.Retries = retries
}
