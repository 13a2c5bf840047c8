package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	"github.com/yourusername/fretboard-api/internal/service"
)

// defaultHeatmapMaxFret ограничивает карту ошибок первыми 12 ладами,
// если клиент не запросил полный гриф
const defaultHeatmapMaxFret = 12

// StatsHandler обрабатывает запросы аналитики практики
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler создает новый обработчик аналитики
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// NoteMastery возвращает статистику освоения по всем 12 питч-классам
// GET /api/stats/note-mastery
func (h *StatsHandler) NoteMastery(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}

	mastery, err := h.statsService.NoteMastery(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": mastery})
}

// Heatmap возвращает карту ошибок грифа
// GET /api/stats/heatmap?quiz_type=&from_date=&max_fret=
func (h *StatsHandler) Heatmap(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}

	filters := repository.AnswerFilters{QuizType: c.Query("quiz_type")}
	if filters.QuizType != "" && !entity.IsValidQuizType(filters.QuizType) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid quiz_type", "error_type": "validation_error"})
		return
	}

	if fromStr := c.Query("from_date"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			if from, err = time.Parse(time.RFC3339, fromStr); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid from_date", "error_type": "validation_error"})
				return
			}
		}
		filters.FromDate = &from
	}

	maxFret := defaultHeatmapMaxFret
	if maxFretStr := c.Query("max_fret"); maxFretStr != "" {
		parsed, err := strconv.Atoi(maxFretStr)
		if err != nil || parsed < 1 || parsed > entity.MaxFretPosition {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid max_fret", "error_type": "validation_error"})
			return
		}
		maxFret = parsed
	}

	heatmap, err := h.statsService.Heatmap(userID, filters, maxFret)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, heatmap)
}

// Overview возвращает сводную статистику практики вместе с серией
// GET /api/stats/overview
func (h *StatsHandler) Overview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}

	overview, err := h.statsService.Overview(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
