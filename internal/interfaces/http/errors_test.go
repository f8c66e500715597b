package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores de dominio a códigos HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteError_MapeoDeSentinelas(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrInsufficientAvailable, http.StatusConflict, "INSUFFICIENT_AVAILABLE"},
		{domain.ErrInvariantViolation, http.StatusConflict, "INVARIANT"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY"},
		{domain.ErrRecordRetired, http.StatusConflict, "RETIRED"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{errors.New("se cayó la base"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/fallo", func(c *fiber.Ctx) error {
				return writeError(c, fmt.Errorf("contexto: %w", tc.err))
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fallo", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}
