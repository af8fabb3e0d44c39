package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/application/usecase"
)

// PartHandler maneja las peticiones HTTP del catálogo de repuestos.
type PartHandler struct {
	uc *usecase.PartUseCase
}

// NewPartHandler construye el handler.
func NewPartHandler(uc *usecase.PartUseCase) *PartHandler {
	return &PartHandler{uc: uc}
}

// Create godoc
// @Summary      Crear repuesto
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartRequest  true  "Datos del repuesto"
// @Success      201   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/parts [post]
func (h *PartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PartNumber == "" || in.Name == "" || in.Brand == "" || in.CategoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "part_number, name, brand y category_id son requeridos"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener repuesto por ID
// @Description  Suma una vista al repuesto.
// @Tags         parts
// @Produce      json
// @Param        id   path  string  true  "ID del repuesto"
// @Success      200  {object}  dto.PartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id} [get]
func (h *PartHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PART_NOT_FOUND", Message: "repuesto no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar repuestos
// @Tags         parts
// @Produce      json
// @Param        page          query  int     false  "Página (desde 1)"
// @Param        limit         query  int     false  "Tamaño de página (máx. 100)"
// @Param        category      query  string  false  "ID de categoría"
// @Param        brand         query  string  false  "Marca (parcial)"
// @Param        min_price     query  string  false  "Precio mínimo"
// @Param        max_price     query  string  false  "Precio máximo"
// @Param        search        query  string  false  "Texto libre"
// @Param        stock_status  query  string  false  "in_stock | low_stock | out_of_stock"
// @Param        sort_by       query  string  false  "createdAt | name | sellingPrice | quantity | salesCount | views"
// @Param        sort_order    query  string  false  "asc | desc"
// @Success      200  {object}  dto.PartListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/parts [get]
func (h *PartHandler) List(c *fiber.Ctx) error {
	var q dto.PartListQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar repuestos
// @Tags         parts
// @Produce      json
// @Param        query  path   string  true   "Texto a buscar"
// @Param        limit  query  int     false  "Máximo de resultados (default 20)"
// @Success      200  {array}   dto.PartResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/parts/search/{query} [get]
func (h *PartHandler) Search(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	out, err := h.uc.Search(c.Context(), c.Params("query"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar repuesto
// @Description  El número de parte y la cantidad no se modifican aquí.
// @Tags         parts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del repuesto"
// @Param        body  body  dto.UpdatePartRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id} [put]
func (h *PartHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PART_NOT_FOUND", Message: "repuesto no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar repuesto (baja lógica)
// @Tags         parts
// @Security     Bearer
// @Param        id   path  string  true  "ID del repuesto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/parts/{id} [delete]
func (h *PartHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
