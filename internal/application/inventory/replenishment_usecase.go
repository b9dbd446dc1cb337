package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/menu-engine/internal/application/dto"
	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/internal/domain/repository"
	"github.com/jhoicas/menu-engine/pkg/logger"
)

// DefaultWindowDays ventana de consumo usada para priorizar.
const DefaultWindowDays = 7

// ReplenishmentUseCase genera la lista de reposición del libro de stock.
// Combina las entradas bajo umbral con el consumo reciente por pedidos para priorizar.
type ReplenishmentUseCase struct {
	repo   repository.ReplenishmentRepository
	dishes func() []entity.Dish
	log    *logger.Logger
	now    func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición. dishes puede ser nil.
func NewReplenishmentUseCase(repo repository.ReplenishmentRepository, dishes func() []entity.Dish, log *logger.Logger) *ReplenishmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReplenishmentUseCase{repo: repo, dishes: dishes, log: log.Component("replenishment"), now: time.Now}
}

// GenerateReplenishmentList devuelve las entradas bajo umbral con la cantidad sugerida y un
// ranking de prioridad. windowDays <= 0 usa DefaultWindowDays.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, windowDays int) (*dto.ReplenishmentListResponse, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	// 1. Entradas en o bajo su umbral
	items, err := uc.repo.ListBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return &dto.ReplenishmentListResponse{Items: []dto.ReplenishmentSuggestionDTO{}}, nil
	}

	// 2. Consumo de la ventana; sin historial la lista sigue siendo útil
	since := uc.now().AddDate(0, 0, -windowDays)
	consumption, err := uc.repo.ConsumptionSince(ctx, since)
	if err != nil {
		uc.log.Warn().Err(err).Msg("consumo no disponible; se prioriza solo por déficit")
	}
	byID := make(map[string]repository.StockConsumption, len(consumption))
	for _, c := range consumption {
		byID[c.StockItemID] = c
	}

	// 3. Platos enlazados a cada entrada
	linked := map[string][]string{}
	if uc.dishes != nil {
		for _, d := range uc.dishes() {
			if d.HasStockLink() {
				linked[d.StockItemID] = append(linked[d.StockItemID], d.Name)
			}
		}
	}

	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, it := range items {
		threshold := it.MinThreshold
		if threshold <= 0 {
			threshold = entity.DefaultMinThreshold
		}
		ideal := (threshold*3 + 1) / 2
		suggested := max(ideal-it.Quantity, 0)
		c := byID[it.ID]
		out = append(out, dto.ReplenishmentSuggestionDTO{
			StockItemID:    it.ID,
			Name:           it.Name,
			CurrentStock:   it.Quantity,
			MinThreshold:   threshold,
			IdealStock:     ideal,
			SuggestedQty:   suggested,
			UnitsConsumed:  max(c.Units, 0),
			OrdersInWindow: c.Orders,
			Dishes:         linked[it.ID],
			WindowDays:     windowDays,
		})
	}

	// 4. Ordenar: primero agotados, luego mayor consumo, luego mayor déficit relativo al umbral
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.CurrentStock <= 0) != (b.CurrentStock <= 0) {
			return a.CurrentStock <= 0
		}
		if a.UnitsConsumed != b.UnitsConsumed {
			return a.UnitsConsumed > b.UnitsConsumed
		}
		return a.MinThreshold-a.CurrentStock > b.MinThreshold-b.CurrentStock
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range out {
		out[i].Priority = i + 1
	}
	return &dto.ReplenishmentListResponse{Items: out, Total: len(out)}, nil
}
