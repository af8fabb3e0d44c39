package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/autoparts-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del dashboard (solo operadores).
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve conteos por estado de stock, valorización, desglose por categoría,
// más vendidos y más recientes.
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetLowStock devuelve los repuestos en o bajo su mínimo con la cantidad sugerida.
// GET /api/v1/dashboard/low-stock
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	list, err := h.uc.GetLowStock(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"parts": list,
	})
}

// GetStats devuelve agregados globales (cantidades, precios, vistas y ventas).
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	out, err := h.uc.GetStats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
