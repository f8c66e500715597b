package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// InventoryHandler maneja movimientos, ajustes, traslados y consultas de stock (protegido).
type InventoryHandler struct {
	applier *ledger.ApplyMovementUseCase
	admin   *ledger.StockAdminUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(applier *ledger.ApplyMovementUseCase, admin *ledger.StockAdminUseCase) *InventoryHandler {
	return &InventoryHandler{applier: applier, admin: admin}
}

// ApplyMovement godoc
// @Summary      Aplicar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "stock_record_id o (product_id + warehouse_id), type, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := ledger.MovementInput{
		CompanyID:     companyID,
		UserID:        userID,
		StockRecordID: in.StockRecordID,
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		Reason:        in.Reason,
		OccurredAt:    in.OccurredAt,
	}
	if in.StockRecordID == "" {
		input.Locator = &entity.StockLocator{
			ProductID:   in.ProductID,
			VariantID:   in.VariantID,
			WarehouseID: in.WarehouseID,
			LotNumber:   in.LotNumber,
		}
	}
	if in.ReferenceType != "" {
		ref, ok := entity.ReferenceFrom(in.ReferenceType, in.ReferenceID)
		if !ok {
			return writeError(c, domain.ErrInvalidInput)
		}
		input.Reference = ref
	}

	mov, err := h.applier.ApplyMovement(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(mov))
}

// AdjustStock godoc
// @Summary      Ajuste administrativo de stock (fija cantidad absoluta)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "stock_record_id, new_quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.applier.AdjustStock(c.Context(), ledger.AdjustStockInput{
		CompanyID:                  companyID,
		UserID:                     userID,
		StockRecordID:              in.StockRecordID,
		NewQuantity:                in.NewQuantity,
		Reason:                     in.Reason,
		ApprovedBy:                 in.ApprovedBy,
		AcknowledgeOverReservation: in.AcknowledgeOverReservation,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movementResponse(mov))
}

// Transfer godoc
// @Summary      Traslado de stock entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_warehouse_id, to_warehouse_id, quantity"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.applier.TransferStock(c.Context(), ledger.TransferInput{
		CompanyID:       companyID,
		UserID:          userID,
		ProductID:       in.ProductID,
		VariantID:       in.VariantID,
		LotNumber:       in.LotNumber,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Reason:          in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transfer_id": result.TransferID,
		"out":         movementResponse(result.Out),
		"in":          movementResponse(result.In),
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos (paginado)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        stock_record_id  query  string  false  "Filtrar por registro de stock"
// @Param        type             query  string  false  "Filtrar por tipo de movimiento"
// @Param        reference_id     query  string  false  "Filtrar por documento de origen"
// @Param        limit            query  int     false  "Máximo 100"
// @Param        offset           query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movements, err := h.applier.ListMovements(c.Context(), repository.MovementFilter{
		CompanyID:     companyID,
		StockRecordID: c.Query("stock_record_id"),
		Type:          c.Query("type"),
		ReferenceType: c.Query("reference_type"),
		ReferenceID:   c.Query("reference_id"),
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, movementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// GetStockRecord godoc
// @Summary      Consultar un registro de stock
// @Description  available_quantity siempre se deriva de quantity - reserved_quantity.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{id} [get]
func (h *InventoryHandler) GetStockRecord(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	record, err := h.applier.GetStockRecord(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stockRecordResponse(record))
}

// FindStockRecord godoc
// @Summary      Buscar un registro de stock por su tupla de negocio
// @Description  Localiza el registro por (producto, variante, bodega, lote).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "ID del producto"
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        variant_id    query  string  false  "ID de la variante"
// @Param        lot_number    query  string  false  "Número de lote"
// @Success      200  {object}  dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) FindStockRecord(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	locator := entity.StockLocator{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
	}
	if v := c.Query("variant_id"); v != "" {
		locator.VariantID = &v
	}
	if l := c.Query("lot_number"); l != "" {
		locator.LotNumber = &l
	}
	record, err := h.applier.GetStockRecordByLocator(c.Context(), companyID, locator)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stockRecordResponse(record))
}

// ListStockByWarehouse godoc
// @Summary      Listar registros de stock de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        limit         query  int     false  "Máximo 100"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/warehouses/{warehouse_id}/stock [get]
func (h *InventoryHandler) ListStockByWarehouse(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	records, err := h.admin.ListByWarehouse(c.Context(), companyID, c.Params("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, stockRecordResponse(r))
	}
	return c.JSON(fiber.Map{"total": len(out), "stock": out})
}

// RetireStockRecord godoc
// @Summary      Retirar un registro de stock (soft-retire)
// @Description  Solo se retiran registros en cero; con stock o reservas vigentes es conflicto. Idempotente.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del registro"
// @Success      204  "Retirado"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{id}/retire [post]
func (h *InventoryHandler) RetireStockRecord(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.admin.RetireStockRecord(c.Context(), companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func movementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		StockRecordID:  m.StockRecordID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		Reason:         m.Reason,
		ReferenceType:  m.Reference.Type(),
		ReferenceID:    m.Reference.ID(),
		OccurredAt:     m.OccurredAt,
		CreatedBy:      m.CreatedBy,
	}
}

func stockRecordResponse(s *entity.StockRecord) dto.StockRecordResponse {
	return dto.StockRecordResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		VariantID:         s.VariantID,
		WarehouseID:       s.WarehouseID,
		LotNumber:         s.LotNumber,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.Available(),
		Status:            s.Status,
		Zone:              s.Location.Zone,
		Aisle:             s.Location.Aisle,
		Shelf:             s.Location.Shelf,
		Bin:               s.Location.Bin,
		ExpiryDate:        s.ExpiryDate,
		Retired:           s.Retired,
		UpdatedAt:         s.UpdatedAt,
	}
}
