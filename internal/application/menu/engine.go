// Package menu orquesta la reconciliación del menú digital: carga el catálogo local y el remoto,
// recurre al feed estático cuando el remoto falla, publica snapshots inmutables y aplica los
// cambios en vivo del backend remoto.
package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/menu-engine/internal/application/ports"
	"github.com/jhoicas/menu-engine/internal/domain"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/menu"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
	"github.com/jhoicas/menu-engine/pkg/logger"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

// Options parámetros del motor. Los valores cero se reemplazan por los de DefaultOptions.
type Options struct {
	Retries    int           // reintentos del remoto tras el primer intento
	RetryDelay time.Duration // base del backoff exponencial
	Locale     string        // idioma para ordenar nombres
	// Backoff calcula la espera antes del reintento n (1-based). Nil = exponencial sobre RetryDelay.
	Backoff func(attempt int) time.Duration
}

// DefaultOptions valores usados cuando Options viene vacío.
func DefaultOptions() Options {
	return Options{Retries: 3, RetryDelay: 800 * time.Millisecond, Locale: "pt-AO"}
}

// Engine dueño del snapshot publicado. Los lectores solo cargan el puntero atómico; los escritores
// (refresco y deltas) se serializan con mu.
type Engine struct {
	catalog   repository.CatalogRepository
	remote    ports.RemoteMenuSource // nil = backend remoto no configurado
	feed      ports.FeedSource       // nil = sin feed de respaldo
	log       *logger.Logger
	opts      Options
	collation textnorm.Collation

	snap       atomic.Pointer[Snapshot]
	generation atomic.Uint64
	mu         sync.Mutex
	version    uint64

	// Deltas aplicados mientras hay refrescos en curso; un refresco los reaplica sobre lo que
	// descargó antes de publicar. Protegidos por mu.
	deltaSeq uint64
	deltaLog []loggedDelta
	inflight int

	statusMu sync.RWMutex
	status   SyncStatus
}

// NewEngine construye el motor. remote y feed pueden ser nil.
func NewEngine(catalog repository.CatalogRepository, remote ports.RemoteMenuSource, feed ports.FeedSource, log *logger.Logger, opts Options) *Engine {
	def := DefaultOptions()
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.Locale == "" {
		opts.Locale = def.Locale
	}
	if opts.Backoff == nil {
		base := opts.RetryDelay
		opts.Backoff = func(attempt int) time.Duration {
			return base << (attempt - 1)
		}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		catalog:   catalog,
		remote:    remote,
		feed:      feed,
		log:       log.Component("menu_engine"),
		opts:      opts,
		collation: textnorm.NewCollation(opts.Locale),
		status:    SyncStatus{State: StateIdle},
	}
}

// loadResult lo que cada refresco obtiene de las fuentes antes de construir el snapshot.
type loadResult struct {
	localCategories []entity.Category
	localDishes     []entity.Dish
	localErr        error
	remote          ports.RawMenu
	remoteErr       error
}

// Refresh recarga todas las fuentes y publica un snapshot nuevo. Los errores del remoto no son
// fatales: se informan en Status() y el motor recurre al feed o al catálogo local.
// Devuelve domain.ErrMenuEmpty solo si local, remoto y feed están vacíos a la vez.
func (e *Engine) Refresh(ctx context.Context) (*Snapshot, error) {
	out, err := e.refresh(ctx)
	return out.snap, err
}

// refreshOutcome resultado de un refresco; remoteErr permite a RefreshWithRetry decidir si reintentar.
type refreshOutcome struct {
	snap      *Snapshot
	remoteErr error
}

// loggedDelta delta aplicado con su número de secuencia.
type loggedDelta struct {
	seq   uint64
	delta entity.Delta
}

func (e *Engine) refresh(ctx context.Context) (refreshOutcome, error) {
	e.mu.Lock()
	gen := e.generation.Add(1)
	startSeq := e.deltaSeq
	e.inflight++
	e.mu.Unlock()
	defer e.endRefresh()

	var res loadResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.localCategories, res.localDishes, res.localErr = e.loadLocal(gctx)
		return nil
	})
	if e.remote != nil {
		g.Go(func() error {
			res.remote, res.remoteErr = e.remote.FetchMenu(gctx)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return refreshOutcome{snap: e.Snapshot(), remoteErr: res.remoteErr}, err
	}

	if res.localErr != nil {
		e.log.Error().Err(res.localErr).Msg("no se pudo leer el catálogo local; se continúa con el remoto")
	}

	in := snapshotInput{
		source:          SourceRemote,
		localCategories: res.localCategories,
		localDishes:     res.localDishes,
		settings:        res.remote.Settings,
	}
	raw := res.remote
	if res.remoteErr != nil || raw.Empty() {
		if res.remoteErr != nil {
			e.log.Warn().Err(res.remoteErr).Msg("backend remoto no disponible; se intenta el feed")
		}
		in.source = SourceLocal
		in.settings = e.previousSettings()
		raw = ports.RawMenu{}
		if feedRaw, err := e.fetchFeed(ctx); err != nil {
			e.log.Warn().Err(err).Msg("feed de respaldo no disponible; solo catálogo local")
		} else if !feedRaw.Empty() {
			in.source = SourceFeed
			raw = feedRaw
			if feedRaw.Settings.Name != "" {
				in.settings = feedRaw.Settings
			}
		}
	}
	in.remote = menu.RemoteSet{
		Categories: menu.NormalizeCategories(raw.Categories),
		Dishes:     menu.NormalizeDishes(raw.Dishes),
	}

	if len(in.localCategories) == 0 && len(in.localDishes) == 0 &&
		len(in.remote.Categories) == 0 && len(in.remote.Dishes) == 0 {
		e.recordAttempt(res.remoteErr, in.source)
		out := refreshOutcome{snap: e.Snapshot(), remoteErr: res.remoteErr}
		return out, errors.Join(domain.ErrMenuEmpty, res.remoteErr, res.localErr)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation.Load() {
		e.log.Debug().Uint64("generation", gen).Msg("refresco superado por otro más reciente; resultado descartado")
		return refreshOutcome{snap: e.snap.Load(), remoteErr: res.remoteErr}, nil
	}
	if replay := e.deltasSince(startSeq); len(replay) > 0 {
		in.remote, _, _ = menu.ApplyDeltas(in.remote, replay)
		e.log.Debug().Int("deltas", len(replay)).Msg("deltas recibidos durante el refresco reaplicados")
	}
	e.version++
	in.version = e.version
	snap := buildSnapshot(in, e.collation.Less(), e.log)
	e.snap.Store(snap)
	e.recordAttempt(res.remoteErr, in.source)

	e.log.Info().Uint64("version", snap.Version).Str("source", snap.Source).
		Int("dishes", len(snap.Dishes)).Int("categories", len(snap.Categories)).
		Msg("snapshot del menú publicado")
	return refreshOutcome{snap: snap, remoteErr: res.remoteErr}, nil
}

// endRefresh cierra un refresco; sin refrescos en curso el registro de deltas ya no hace falta.
func (e *Engine) endRefresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inflight--
	if e.inflight == 0 {
		e.deltaLog = nil
	}
}

// deltasSince deltas registrados después de seq. Requiere mu.
func (e *Engine) deltasSince(seq uint64) []entity.Delta {
	var out []entity.Delta
	for _, ld := range e.deltaLog {
		if ld.seq > seq {
			out = append(out, ld.delta)
		}
	}
	return out
}

// RefreshWithRetry refresca y, mientras el remoto falle, reintenta con backoff hasta Options.Retries
// veces. Cada reintento deja el estado en "retrying" con el contador; al agotarse queda "failed".
// Entre intentos el snapshot anterior (o el construido sin remoto) sigue sirviendo.
func (e *Engine) RefreshWithRetry(ctx context.Context) (*Snapshot, error) {
	for attempt := 0; ; attempt++ {
		out, err := e.refresh(ctx)
		if err != nil && !errors.Is(err, domain.ErrMenuEmpty) {
			return out.snap, err
		}
		if out.remoteErr == nil || !retryable(out.remoteErr) || attempt >= e.opts.Retries {
			if out.remoteErr != nil {
				e.setState(StateFailed, attempt)
			}
			return out.snap, err
		}
		e.setState(StateRetrying, attempt+1)
		e.log.Warn().Int("attempt", attempt+1).Int("max", e.opts.Retries).Err(out.remoteErr).Msg("reintentando backend remoto")

		select {
		case <-ctx.Done():
			return out.snap, ctx.Err()
		case <-time.After(e.opts.Backoff(attempt + 1)):
		}
	}
}

// retryable la configuración ausente no se arregla reintentando.
func retryable(err error) bool {
	var se *domain.SourceError
	if errors.As(err, &se) {
		return se.Kind != domain.SourceConfigMissing
	}
	return true
}

// ApplyDeltas aplica un lote de cambios en vivo sobre la mitad remota del snapshot actual y publica
// uno nuevo con conteos y jerarquía recalculados. Devuelve cuántos deltas cambiaron algo.
func (e *Engine) ApplyDeltas(batch []entity.Delta) (int, []error) {
	if len(batch) == 0 {
		return 0, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	// Se registra el lote completo: un delta sin efecto aquí puede tenerlo sobre lo que descargue
	// un refresco en curso.
	if e.inflight > 0 {
		for _, d := range batch {
			e.deltaSeq++
			e.deltaLog = append(e.deltaLog, loggedDelta{seq: e.deltaSeq, delta: d})
		}
	}

	cur := e.snap.Load()
	if cur == nil {
		if e.inflight > 0 {
			e.log.Warn().Int("deltas", len(batch)).Msg("deltas recibidos antes del primer snapshot: se aplicarán al publicarlo")
		} else {
			e.log.Warn().Int("deltas", len(batch)).Msg("deltas recibidos antes del primer snapshot: descartados")
		}
		return 0, []error{domain.ErrMenuEmpty}
	}
	remote, applied, errs := menu.ApplyDeltas(cur.Remote, batch)
	for _, err := range errs {
		e.log.Warn().Err(err).Msg("delta inválido ignorado")
	}
	if applied == 0 {
		return 0, errs
	}

	e.version++
	next := buildSnapshot(snapshotInput{
		version:         e.version,
		source:          cur.Source,
		settings:        cur.Settings,
		localCategories: cur.LocalCategories,
		localDishes:     cur.LocalDishes,
		remote:          remote,
	}, e.collation.Less(), e.log)
	e.snap.Store(next)
	e.log.Debug().Int("applied", applied).Uint64("version", next.Version).Msg("deltas aplicados")
	return applied, errs
}

// Run mantiene el snapshot al día hasta que ctx se cancela: refresco periódico con reintentos y,
// si hay suscriptor, ingestión continua de deltas con reconexión.
func (e *Engine) Run(ctx context.Context, subscriber ports.DeltaSubscriber, interval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if interval <= 0 {
			return nil
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if _, err := e.RefreshWithRetry(gctx); err != nil && gctx.Err() == nil {
					e.log.Error().Err(err).Msg("refresco periódico del menú falló")
				}
			}
		}
	})

	if subscriber != nil {
		g.Go(func() error {
			failures := 0
			for {
				err := subscriber.Subscribe(gctx, func(batch []entity.Delta) {
					failures = 0
					e.ApplyDeltas(batch)
				})
				if gctx.Err() != nil {
					return nil
				}
				failures++
				wait := e.opts.Backoff(min(failures, 6))
				e.log.Warn().Err(err).Dur("retry_in", wait).Msg("canal de deltas cerrado; reconectando")
				select {
				case <-gctx.Done():
					return nil
				case <-time.After(wait):
				}
			}
		})
	}
	return g.Wait()
}

func (e *Engine) loadLocal(ctx context.Context) ([]entity.Category, []entity.Dish, error) {
	if e.catalog == nil {
		return nil, nil, nil
	}
	cats, err := e.catalog.ListCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar categorías locales: %w", err)
	}
	dishes, err := e.catalog.ListDishes(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listar platos locales: %w", err)
	}
	for i := range cats {
		cats[i] = menu.CleanCategory(cats[i])
	}
	for i := range dishes {
		dishes[i] = menu.CleanDish(dishes[i])
	}
	return cats, dishes, nil
}

func (e *Engine) fetchFeed(ctx context.Context) (ports.RawMenu, error) {
	if e.feed == nil {
		return ports.RawMenu{}, fmt.Errorf("feed no configurado: %w", domain.ErrSourceUnavailable)
	}
	return e.feed.FetchFeed(ctx)
}

func (e *Engine) previousSettings() ports.RestaurantSettings {
	if cur := e.snap.Load(); cur != nil {
		return cur.Settings
	}
	return ports.RestaurantSettings{}
}

// ── Vistas de solo lectura ────────────────────────────────────────────────────

// Snapshot devuelve el snapshot publicado o nil si aún no hay ninguno.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load()
}

// Categories categorías saneadas del snapshot actual.
func (e *Engine) Categories() []entity.Category {
	s := e.snap.Load()
	if s == nil {
		return nil
	}
	return slices.Clone(s.Categories)
}

// Hierarchy bosque de categorías del snapshot actual.
func (e *Engine) Hierarchy() menu.Hierarchy {
	s := e.snap.Load()
	if s == nil {
		return menu.Hierarchy{}
	}
	return s.Hierarchy
}

// Counts conteos por categoría más TODOS.
func (e *Engine) Counts() menu.Counts {
	s := e.snap.Load()
	if s == nil {
		return menu.Counts{ByCategory: map[string]int{}}
	}
	return s.Counts()
}

// Dishes platos filtrados por categoría y búsqueda, ordenados por nombre según el idioma.
func (e *Engine) Dishes(q menu.DishQuery) []entity.Dish {
	s := e.snap.Load()
	if s == nil {
		return nil
	}
	return menu.FilterDishes(s.Dishes, s.Categories, s.Resolution, q, e.collation.Less())
}

// Dish busca un plato por id. Satisface order.MenuReader.
func (e *Engine) Dish(id string) (entity.Dish, bool) {
	s := e.snap.Load()
	if s == nil {
		return entity.Dish{}, false
	}
	return s.Dish(id)
}

// Unmatched platos que no se resolvieron a ninguna categoría.
func (e *Engine) Unmatched() []entity.Dish {
	s := e.snap.Load()
	if s == nil {
		return nil
	}
	return slices.Clone(s.Resolution.Unmatched)
}

// RestaurantName nombre publicado por la fuente del snapshot actual.
func (e *Engine) RestaurantName() string {
	s := e.snap.Load()
	if s == nil {
		return ""
	}
	return s.Settings.Name
}
