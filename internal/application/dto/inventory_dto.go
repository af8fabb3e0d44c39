package dto

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/domain"
)

// UpdateStockRequest body para PATCH /api/v1/parts/:id/stock.
// Quantity se recibe crudo para distinguir "ausente" de "no numérico".
type UpdateStockRequest struct {
	Quantity  json.RawMessage `json:"quantity"`
	Operation string          `json:"operation"` // set (default) | add | subtract
}

// QuantityValue interpreta Quantity como entero. Acepta número JSON entero o string numérico.
func (r UpdateStockRequest) QuantityValue() (int64, error) {
	raw := strings.TrimSpace(string(r.Quantity))
	if raw == "" || raw == "null" {
		return 0, domain.ErrInvalidQuantity
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(r.Quantity, &s); err != nil {
			return 0, domain.ErrInvalidQuantity
		}
		raw = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64/2 {
		return 0, domain.ErrInvalidQuantity
	}
	return int64(f), nil
}

// StockUpdateResponse salida de una mutación de stock.
type StockUpdateResponse struct {
	PartID           string `json:"part_id"`
	PartNumber       string `json:"part_number"`
	Name             string `json:"name"`
	PreviousQuantity int64  `json:"previous_quantity"`
	Quantity         int64  `json:"quantity"`
	StockStatus      string `json:"stock_status"`
	AlertTriggered   bool   `json:"alert_triggered"`
}

// ReplenishmentSuggestionDTO repuesto en o bajo su stock mínimo, con la cantidad sugerida de pedido.
type ReplenishmentSuggestionDTO struct {
	PartID             string          `json:"part_id"`
	PartNumber         string          `json:"part_number"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	CategoryID         string          `json:"category_id"`
	Quantity           int64           `json:"quantity"`
	MinStockLevel      int64           `json:"min_stock_level"`
	ReorderQuantity    int64           `json:"reorder_quantity"`
	StockStatus        string          `json:"stock_status"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // lleva el stock por encima del mínimo
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * CostPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}
