package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/application/inventory"
)

// InventoryHandler maneja las mutaciones de stock (solo operadores).
type InventoryHandler struct {
	engine *inventory.StockEngine
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.StockEngine) *InventoryHandler {
	return &InventoryHandler{engine: engine}
}

// UpdateStock godoc
// @Summary      Actualizar stock de un repuesto
// @Description  operation: set (default), add o subtract. subtract nunca deja el stock bajo 0.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del repuesto"
// @Param        body  body  dto.UpdateStockRequest  true  "quantity, operation"
// @Success      200   {object}  dto.StockUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id}/stock [patch]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.engine.MutateStockFromRequest(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
