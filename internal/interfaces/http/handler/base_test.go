package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/hirepurchase/backend/internal/interfaces/http/dto"
	"github.com/hirepurchase/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.RequestIDKey, "req-test")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "Contract not found"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"forbidden", shared.NewDomainError("FORBIDDEN", "nope"), http.StatusForbidden, dto.ErrCodeForbidden},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "Installment already paid"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"invalid prefix", shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive"), http.StatusBadRequest, dto.ErrCodeValidation},
		{"conflict", shared.NewDomainError("ALREADY_EXISTS", "Contract number taken"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"concurrency", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"wrapped domain error", fmt.Errorf("approve: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/", "")
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-test", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorHidesInternalMessage(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")
	h.HandleError(c, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
	assert.Len(t, c.Errors, 1)
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")
	h.HandleError(c, nil)
	assert.Zero(t, w.Body.Len())
}

func TestBaseHandler_BindError(t *testing.T) {
	type request struct {
		Name string `json:"name" binding:"required"`
	}
	h := &BaseHandler{}

	t.Run("field failures carry details", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{}`)
		var req request
		h.BindError(c, c.ShouldBindJSON(&req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/", `{"name":`)
		var req request
		h.BindError(c, c.ShouldBindJSON(&req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})
}

func TestBaseHandler_UUIDParam(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/contracts/not-a-uuid", "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	_, ok := h.uuidParam(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBaseHandler_ActorRequired(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")

	_, ok := h.actor(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBaseHandler_Attachment(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", "")
	h.Attachment(c, "application/pdf", "RCPT-1.pdf", []byte("%PDF-1.7"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="RCPT-1.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}
