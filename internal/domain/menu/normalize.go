// Package menu contiene la lógica pura de reconciliación del menú digital: normalización de
// registros de cualquier fuente, fusión local/remoto, saneamiento de ids de categoría,
// resolución plato→categoría, jerarquía y aplicación de deltas en vivo.
// Nada aquí hace I/O ni guarda estado: cada función recibe sus entradas y devuelve copias nuevas.
package menu

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/menu-engine/internal/domain/entity"
	"github.com/jhoicas/menu-engine/pkg/textnorm"
)

// DefaultTaxPercentage IVA aplicado cuando la fuente no trae tasa (o trae 0).
var DefaultTaxPercentage = decimal.NewFromInt(14)

const (
	defaultName    = "SEM_NOME"
	defaultTaxCode = "NOR"
)

// IsPlaceholderID indica si un valor de campo tipo id debe tratarse como ausente:
// vacío, solo espacios o los literales "undefined"/"null".
func IsPlaceholderID(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == "undefined" || t == "null"
}

// cleanID recorta el id y convierte placeholders en "".
func cleanID(s string) string {
	if IsPlaceholderID(s) {
		return ""
	}
	return textnorm.Clean(s)
}

// CleanCategory aplica a un registro ya tipado (catálogo local) las mismas reglas de ids que
// NormalizeCategory aplica a los registros crudos.
func CleanCategory(c entity.Category) entity.Category {
	c.ID = cleanID(c.ID)
	c.ParentID = cleanID(c.ParentID)
	c.Name = textnorm.Clean(c.Name)
	return c
}

// CleanDish equivalente de CleanCategory para platos.
func CleanDish(d entity.Dish) entity.Dish {
	d.ID = cleanID(d.ID)
	d.CategoryID = cleanID(d.CategoryID)
	d.CategoryName = textnorm.Clean(d.CategoryName)
	d.StockItemID = cleanID(d.StockItemID)
	if d.Price.IsNegative() {
		d.Price = decimal.Zero
	}
	return d
}

// NormalizeCategory convierte un registro crudo (backend remoto, feed o delta) en una Category canónica.
// Nunca falla: los campos ausentes quedan con su valor por defecto y el saneador repara el id.
func NormalizeCategory(raw map[string]any) entity.Category {
	name := textnorm.Clean(firstString(raw, "name", "nome"))
	if name == "" {
		name = defaultName
	}
	sortOrder, _ := firstInt(raw, "sort_order", "order", "sortOrder")

	active := true
	if v, ok := raw["deleted_at"]; ok && v != nil && fmt.Sprint(v) != "" {
		active = false
	}
	if b, ok := firstBool(raw, "is_active", "isActive"); ok && !b {
		active = false
	}
	visible := true
	if b, ok := firstBool(raw, "is_visible_on_digital_menu", "visible_on_digital_menu", "isVisibleOnDigitalMenu"); ok {
		visible = b
	}

	return entity.Category{
		ID:                     cleanID(firstString(raw, "id", "uuid")),
		Name:                   name,
		ParentID:               cleanID(firstString(raw, "parent_id", "parentId")),
		SortOrder:              sortOrder,
		IsActive:               active,
		IsVisibleOnDigitalMenu: visible,
		Icon:                   firstString(raw, "icon"),
	}
}

// NormalizeDish convierte un registro crudo en un Dish canónico.
func NormalizeDish(raw map[string]any) entity.Dish {
	name := textnorm.Clean(firstString(raw, "name", "nome"))
	if name == "" {
		name = defaultName
	}
	price, _ := firstDecimal(raw, "price", "preco")
	if price.IsNegative() {
		price = decimal.Zero
	}
	tax, ok := firstDecimal(raw, "tax_rate", "taxa", "taxPercentage", "tax_percentage")
	if !ok || tax.IsZero() {
		tax = DefaultTaxPercentage
	}
	taxCode := firstString(raw, "tax_code", "taxCode")
	if taxCode == "" {
		taxCode = defaultTaxCode
	}
	available := true
	if b, ok := firstBool(raw, "available", "disponivel", "is_active"); ok {
		available = b
	}

	return entity.Dish{
		ID:            cleanID(firstString(raw, "id", "uuid")),
		Name:          name,
		Description:   strings.TrimSpace(firstString(raw, "description", "descricao")),
		Price:         price,
		CategoryID:    cleanID(firstString(raw, "category_id", "categoria_id", "categoryId")),
		CategoryName:  textnorm.Clean(firstString(raw, "category_name", "categoryName", "categoria_nome")),
		Image:         normalizeImage(firstString(raw, "image_url", "imagem_url", "image")),
		Available:     available,
		StockItemID:   cleanID(firstString(raw, "stock_item_id", "stockItemId")),
		TaxCode:       taxCode,
		TaxPercentage: tax,
	}
}

// NormalizeCategories normaliza una lista completa conservando el orden de la fuente.
func NormalizeCategories(raws []map[string]any) []entity.Category {
	out := make([]entity.Category, 0, len(raws))
	for _, r := range raws {
		out = append(out, NormalizeCategory(r))
	}
	return out
}

// NormalizeDishes normaliza una lista de platos. Un plato sin id recibe uno estable derivado
// de su posición y nombre para que la fusión y los deltas puedan referenciarlo.
func NormalizeDishes(raws []map[string]any) []entity.Dish {
	out := make([]entity.Dish, 0, len(raws))
	for i, r := range raws {
		d := NormalizeDish(r)
		if d.ID == "" {
			d.ID = fmt.Sprintf("dish_%d_%s", i, textnorm.Slug(d.Name, "_"))
		}
		out = append(out, d)
	}
	return out
}

// normalizeImage descarta descriptores de imagen que no apuntan a nada.
func normalizeImage(s string) string {
	t := strings.TrimSpace(s)
	switch t {
	case "", "/", "null", "undefined", "none":
		return ""
	}
	return t
}

// ── Lectura tolerante de campos crudos ────────────────────────────────────────

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		if s := toString(v); s != "" {
			return s
		}
	}
	return ""
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func firstDecimal(raw map[string]any, keys ...string) (decimal.Decimal, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return decimal.NewFromFloat(t), true
		case int:
			return decimal.NewFromInt(int64(t)), true
		case int64:
			return decimal.NewFromInt(t), true
		case decimal.Decimal:
			return t, true
		default:
			if d, err := decimal.NewFromString(strings.TrimSpace(toString(t))); err == nil {
				return d, true
			}
		}
	}
	return decimal.Zero, false
}

func firstInt(raw map[string]any, keys ...string) (int, bool) {
	d, ok := firstDecimal(raw, keys...)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func firstBool(raw map[string]any, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
				return b, true
			}
		case float64:
			return t != 0, true
		}
	}
	return false, false
}
