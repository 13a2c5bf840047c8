package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/handler/dto"
	"github.com/yourusername/fretboard-api/internal/service"
	"github.com/yourusername/fretboard-api/internal/service/quizrules"
)

// AnswerHandler обрабатывает запись ответов в журнал сессии
type AnswerHandler struct {
	answerService *service.AnswerService
}

// NewAnswerHandler создает новый обработчик ответов
func NewAnswerHandler(answerService *service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

// SubmitAnswerRequest представляет запрос на запись ответа.
// time_taken_ms принимается как json.Number: дробные миллисекунды
// отклоняются на уровне валидации, а не молча округляются.
type SubmitAnswerRequest struct {
	QuestionNumber int          `json:"question_number"`
	IsCorrect      bool         `json:"is_correct"`
	TimeTakenMs    *json.Number `json:"time_taken_ms"`

	TargetNote   *string `json:"target_note"`
	SelectedNote *string `json:"selected_note"`
	StringNumber *int    `json:"string_number"`
	FretPosition *int    `json:"fret_position"`

	RootNote          *string           `json:"root_note"`
	ChordType         *string           `json:"chord_type"`
	SelectedPositions []entity.Position `json:"selected_positions"`

	TargetInterval   *string `json:"target_interval"`
	SelectedInterval *string `json:"selected_interval"`
}

// SubmitAnswer записывает ответ в журнал открытой сессии
// POST /api/sessions/:id/answers
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}
	sessionID := c.MustGet("sessionID").(string)

	var req SubmitAnswerRequest
	if err := bindJSONNumber(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "invalid_request"})
		return
	}

	cmd := quizrules.SubmitAnswerCommand{
		QuestionNumber:    req.QuestionNumber,
		IsCorrect:         req.IsCorrect,
		TargetNote:        req.TargetNote,
		SelectedNote:      req.SelectedNote,
		StringNumber:      req.StringNumber,
		FretPosition:      req.FretPosition,
		RootNote:          req.RootNote,
		ChordType:         req.ChordType,
		SelectedPositions: req.SelectedPositions,
		TargetInterval:    req.TargetInterval,
		SelectedInterval:  req.SelectedInterval,
	}
	if req.TimeTakenMs != nil {
		value, err := quizrules.IntFromNumber("time_taken_ms", *req.TimeTakenMs)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		cmd.TimeTakenMs = &value
	}

	answer, err := h.answerService.SubmitAnswer(userID, sessionID, cmd)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAnswerResponse(answer))
}

// GetSessionAnswers возвращает журнал ответов сессии
// GET /api/sessions/:id/answers
func (h *AnswerHandler) GetSessionAnswers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "error_type": "unauthorized"})
		return
	}
	sessionID := c.MustGet("sessionID").(string)

	answers, err := h.answerService.GetSessionAnswers(userID, sessionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answers": dto.NewListAnswerResponse(answers),
		"total":   len(answers),
	})
}
