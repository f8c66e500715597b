package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reorder"
)

// ReorderHandler expone el análisis de reposición (solo lectura, protegido).
type ReorderHandler struct {
	uc *reorder.UseCase
}

// NewReorderHandler construye el handler.
func NewReorderHandler(uc *reorder.UseCase) *ReorderHandler {
	return &ReorderHandler{uc: uc}
}

// GetLowStockAlerts godoc
// @Summary      Alertas de stock bajo
// @Description  Productos con umbral definido cuyo stock actual está en o bajo su punto de reorden. Sin umbral no hay alerta.
// @Tags         reorder
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Limitar a una bodega; vacío agrega todas"
// @Success      200  {array}   dto.LowStockAlertDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reorder/alerts [get]
func (h *ReorderHandler) GetLowStockAlerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	alerts, err := h.uc.GetLowStockAlerts(c.Context(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": alerts})
}

// GetReorderSuggestions godoc
// @Summary      Sugerencias de reposición
// @Description  Cantidad sugerida, costo estimado y proveedor preferido por producto bajo reorden, ordenado por déficit.
// @Tags         reorder
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Limitar a una bodega; vacío agrega todas"
// @Success      200  {array}   dto.ReorderSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reorder/suggestions [get]
func (h *ReorderHandler) GetReorderSuggestions(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	suggestions, err := h.uc.GetReorderSuggestions(c.Context(), companyID, c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(suggestions), "suggestions": suggestions})
}
