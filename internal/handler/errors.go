package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
)

// handleServiceError преобразует ошибку сервисного слоя в HTTP ответ.
// error_type - машиночитаемый код для клиентов, error - человекочитаемое
// сообщение. Конкретные ошибки журнала проверяются раньше базовых,
// поскольку оборачивают их.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateQuestion):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "duplicate_question"})
	case errors.Is(err, repository.ErrSessionClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "session_closed"})
	case errors.Is(err, repository.ErrInvalidStatusTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "invalid_status_transition"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation_error"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	default:
		log.Printf("ERROR: Internal server error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_error"})
	}
}

// currentUserID извлекает ID аутентифицированного пользователя из контекста.
// Второе значение false означает, что middleware аутентификации не отработал.
func currentUserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := raw.(uint)
	return userID, ok
}
