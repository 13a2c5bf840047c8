package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	"github.com/yourusername/fretboard-api/internal/handler/dto"
	"github.com/yourusername/fretboard-api/internal/service"
	"github.com/yourusername/fretboard-api/internal/service/quizrules"
)

// SessionHandler обрабатывает запросы жизненного цикла сессий викторины
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler создает новый обработчик сессий
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest представляет запрос на открытие сессии.
// time_limit_seconds принимается как json.Number, чтобы отличать
// дробные значения от целых до потери точности.
type CreateSessionRequest struct {
	QuizType         string       `json:"quiz_type"`
	Difficulty       string       `json:"difficulty"`
	TimeLimitSeconds *json.Number `json:"time_limit_seconds"`
}

// CloseSessionRequest представляет запрос на закрытие сессии
type CloseSessionRequest struct {
	Status           string       `json:"status"`
	TimeTakenSeconds *json.Number `json:"time_taken_seconds"`
}

// CreateSession обрабатывает открытие новой сессии
// POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}

	var req CreateSessionRequest
	if err := bindJSONNumber(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	cmd := quizrules.OpenSessionCommand{
		QuizType:   req.QuizType,
		Difficulty: req.Difficulty,
	}
	if req.TimeLimitSeconds != nil {
		value, err := quizrules.IntFromNumber("time_limit_seconds", *req.TimeLimitSeconds)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		limit := int(value)
		cmd.TimeLimitSeconds = &limit
	}

	session, err := h.sessionService.OpenSession(userID, cmd)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(session, false))
}

// GetSession возвращает сессию вместе с журналом ответов
// GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}
	sessionID := c.MustGet("sessionID").(string)

	session, err := h.sessionService.GetSession(userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session, true))
}

// ListSessions возвращает пагинированный список сессий пользователя
// GET /api/sessions?page=&per_page=&quiz_type=&difficulty=&status=&sort=&order=
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filters := repository.SessionFilters{
		QuizType:   c.Query("quiz_type"),
		Difficulty: c.Query("difficulty"),
		Status:     c.Query("status"),
	}

	sort := repository.SessionSort{
		Field: c.DefaultQuery("sort", "completed_at"),
		Desc:  c.DefaultQuery("order", "desc") != "asc",
	}

	sessions, total, err := h.sessionService.ListSessions(userID, filters, sort, page, perPage)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedSessionsResponse(sessions, total, page, perPage))
}

// CloseSession переводит сессию в терминальный статус
// PATCH /api/sessions/:id
func (h *SessionHandler) CloseSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}
	sessionID := c.MustGet("sessionID").(string)

	var req CloseSessionRequest
	if err := bindJSONNumber(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	cmd := quizrules.CloseSessionCommand{TargetStatus: req.Status}
	if req.TimeTakenSeconds != nil {
		value, err := quizrules.IntFromNumber("time_taken_seconds", *req.TimeTakenSeconds)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		taken := int(value)
		cmd.TimeTakenSeconds = &taken
	}

	session, err := h.sessionService.CloseSession(userID, sessionID, cmd)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(session, false))
}

// ExportSessions экспортирует историю сессий пользователя в Excel
// GET /api/stats/export
func (h *SessionHandler) ExportSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}

	// Выгружаем всю историю без пагинации страницами по 100
	var sessions []entity.QuizSession
	sort := repository.SessionSort{Field: "started_at", Desc: true}
	for page := 1; ; page++ {
		batch, total, err := h.sessionService.ListSessions(userID, repository.SessionFilters{}, sort, page, 100)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		sessions = append(sessions, batch...)
		if int64(len(sessions)) >= total || len(batch) == 0 {
			break
		}
	}

	filename := fmt.Sprintf("practice_history_%s", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sessions"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[SessionHandler] Failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file", "error_type": "internal_error"})
		return
	}

	headers := []interface{}{"Started At", "Quiz Type", "Difficulty", "Status", "Score", "Time Taken (s)", "Time Limit (s)"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[SessionHandler] Failed to write headers: %v", err)
	}

	for i, s := range sessions {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		score := ""
		if s.Score != nil {
			score = strconv.Itoa(*s.Score)
		}
		taken := ""
		if s.TimeTakenSeconds != nil {
			taken = strconv.Itoa(*s.TimeTakenSeconds)
		}
		limit := ""
		if s.TimeLimitSeconds != nil {
			limit = strconv.Itoa(*s.TimeLimitSeconds)
		}

		row := []interface{}{
			s.StartedAt.UTC().Format(time.RFC3339),
			s.QuizType,
			s.Difficulty,
			s.Status,
			score,
			taken,
			limit,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[SessionHandler] Failed to write row %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[SessionHandler] Stream writer flush failed: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[SessionHandler] Failed to write Excel to response: %v", err)
	}
}

// bindJSONNumber декодирует тело запроса с UseNumber, сохраняя числовые
// литералы как json.Number для последующей проверки формата
func bindJSONNumber(c *gin.Context, target interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}
