package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/receiving"
)

// ReceiptHandler maneja la recepción de mercancía contra órdenes de compra (protegido).
type ReceiptHandler struct {
	uc *receiving.UseCase
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(uc *receiving.UseCase) *ReceiptHandler {
	return &ReceiptHandler{uc: uc}
}

// ReceiveGoods godoc
// @Summary      Registrar recepción de mercancía con control de calidad
// @Description  Cada línea se confirma en su propia transacción: una línea fallida no revierte las demás y el resultado se reporta línea por línea.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveGoodsRequest  true  "purchase_order_id, warehouse_id, items"
// @Success      201   {object}  dto.ReceiveGoodsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReceiptHandler) ReceiveGoods(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveGoodsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	items := make([]receiving.ReceiptItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, receiving.ReceiptItemInput{
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			ReceivedQty:         it.ReceivedQty,
			QCStatus:            it.QCStatus,
			UnitCost:            it.UnitCost,
			VariantID:           it.VariantID,
			LotNumber:           it.LotNumber,
			BatchNumber:         it.BatchNumber,
			ExpiryDate:          it.ExpiryDate,
		})
	}

	result, err := h.uc.ReceiveGoods(c.Context(), receiving.ReceiveGoodsInput{
		CompanyID:       companyID,
		UserID:          userID,
		PurchaseOrderID: in.PurchaseOrderID,
		WarehouseID:     in.WarehouseID,
		Items:           items,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := dto.ReceiveGoodsResponse{ReceiptID: result.Receipt.ID}
	for _, it := range result.Items {
		resp.Items = append(resp.Items, dto.ReceiptItemResponse{
			PurchaseOrderItemID: it.PurchaseOrderItemID,
			Outcome:             it.Outcome,
			FailureCode:         it.FailureCode,
			ReceivedQty:         it.ReceivedQty,
			StockRecordID:       it.StockRecordID,
			MovementID:          it.MovementID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
