package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReserveRequest body para POST /api/reservations.
type ReserveRequest struct {
	StockRecordID string          `json:"stock_record_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReservedFor   string          `json:"reserved_for"` // ORDER | TRANSFER | OTHER
	ReferenceID   string          `json:"reference_id"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
}

// ReleaseRequest body para POST /api/reservations/:id/release.
type ReleaseRequest struct {
	Outcome string `json:"outcome"` // CANCELLED | FULFILLED
}

// ReservationResponse representación de una reserva.
type ReservationResponse struct {
	ID            string          `json:"id"`
	StockRecordID string          `json:"stock_record_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReservedFor   string          `json:"reserved_for"`
	ReferenceID   string          `json:"reference_id"`
	Status        string          `json:"status"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ReleasedAt    *time.Time      `json:"released_at,omitempty"`
}
