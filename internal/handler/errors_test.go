package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantErrorType string
	}{
		{
			name:          "not found",
			err:           apperrors.ErrNotFound,
			wantStatus:    http.StatusNotFound,
			wantErrorType: "not_found",
		},
		{
			name:          "wrapped not found",
			err:           fmt.Errorf("session lookup: %w", apperrors.ErrNotFound),
			wantStatus:    http.StatusNotFound,
			wantErrorType: "not_found",
		},
		{
			name:          "conflict",
			err:           apperrors.ErrConflict,
			wantStatus:    http.StatusConflict,
			wantErrorType: "conflict",
		},
		{
			name:          "duplicate question wins over bare conflict",
			err:           fmt.Errorf("insert: %w", repository.ErrDuplicateQuestion),
			wantStatus:    http.StatusConflict,
			wantErrorType: "duplicate_question",
		},
		{
			name:          "session closed",
			err:           fmt.Errorf("%w: session is completed", repository.ErrSessionClosed),
			wantStatus:    http.StatusConflict,
			wantErrorType: "session_closed",
		},
		{
			name:          "invalid status transition",
			err:           repository.ErrInvalidStatusTransition,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "invalid_status_transition",
		},
		{
			name:          "validation",
			err:           fmt.Errorf("%w: quiz_type", apperrors.ErrValidation),
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "unauthorized",
			err:           apperrors.ErrUnauthorized,
			wantStatus:    http.StatusUnauthorized,
			wantErrorType: "unauthorized",
		},
		{
			name:          "forbidden",
			err:           apperrors.ErrForbidden,
			wantStatus:    http.StatusForbidden,
			wantErrorType: "forbidden",
		},
		{
			name:          "unknown error hides details",
			err:           errors.New("pq: connection refused"),
			wantStatus:    http.StatusInternalServerError,
			wantErrorType: "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantErrorType, resp["error_type"])

			if tt.wantStatus == http.StatusInternalServerError {
				// Внутренние детали не утекают клиенту
				assert.Equal(t, "Internal server error", resp["error"])
			}
		})
	}
}
