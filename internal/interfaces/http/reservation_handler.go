package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/reservation"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ReservationHandler maneja retenciones de stock disponible (protegido).
type ReservationHandler struct {
	uc *reservation.UseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *reservation.UseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Reservar stock disponible contra una orden o traslado
// @Description  No mueve stock físico; solo incrementa reserved_quantity bajo lock de fila.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "stock_record_id, quantity, reserved_for, reference_id"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Reserve(c.Context(), reservation.ReserveInput{
		CompanyID:     companyID,
		UserID:        userID,
		StockRecordID: in.StockRecordID,
		Quantity:      in.Quantity,
		ReservedFor:   in.ReservedFor,
		ReferenceID:   in.ReferenceID,
		ExpiresAt:     in.ExpiresAt,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reservationResponse(res))
}

// Release godoc
// @Summary      Liberar una reserva (cancelar o cumplir)
// @Description  CANCELLED solo devuelve el disponible; FULFILLED además aplica un SHIPMENT en la misma transacción. Idempotente por resultado.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la reserva"
// @Param        body  body  dto.ReleaseRequest  true  "outcome: CANCELLED | FULFILLED"
// @Success      200   {object}  dto.ReservationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReleaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Outcome == "" {
		in.Outcome = entity.ReservationStatusCancelled
	}
	res, err := h.uc.Release(c.Context(), reservation.ReleaseInput{
		CompanyID:     companyID,
		ReservationID: c.Params("id"),
		Outcome:       in.Outcome,
		ReleasedBy:    userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(reservationResponse(res))
}

// GetByID godoc
// @Summary      Consultar una reserva
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id} [get]
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	res, err := h.uc.GetByID(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if res == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(reservationResponse(res))
}

func reservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:            r.ID,
		StockRecordID: r.StockRecordID,
		Quantity:      r.Quantity,
		ReservedFor:   r.ReservedFor,
		ReferenceID:   r.ReferenceID,
		Status:        r.Status,
		ExpiresAt:     r.ExpiresAt,
		CreatedAt:     r.CreatedAt,
		ReleasedAt:    r.ReleasedAt,
	}
}
