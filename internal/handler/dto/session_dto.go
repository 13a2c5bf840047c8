package dto

import (
	"time"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// AnswerResponse представляет записанный ответ в формате для клиента
type AnswerResponse struct {
	ID             uint   `json:"id"`
	SessionID      string `json:"session_id"`
	QuestionNumber int    `json:"question_number"`
	IsCorrect      bool   `json:"is_correct"`
	TimeTakenMs    *int64 `json:"time_taken_ms,omitempty"`

	TargetNote   *string `json:"target_note,omitempty"`
	SelectedNote *string `json:"selected_note,omitempty"`
	StringNumber *int    `json:"string_number,omitempty"`
	FretPosition *int    `json:"fret_position,omitempty"`

	RootNote          *string           `json:"root_note,omitempty"`
	ChordType         *string           `json:"chord_type,omitempty"`
	SelectedPositions []entity.Position `json:"selected_positions,omitempty"`

	TargetInterval   *string `json:"target_interval,omitempty"`
	SelectedInterval *string `json:"selected_interval,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse представляет сессию викторины в формате для клиента
type SessionResponse struct {
	ID               string           `json:"id"`
	UserID           uint             `json:"user_id"`
	QuizType         string           `json:"quiz_type"`
	Difficulty       string           `json:"difficulty"`
	TimeLimitSeconds *int             `json:"time_limit_seconds,omitempty"`
	Status           string           `json:"status"`
	StartedAt        time.Time        `json:"started_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	TimeTakenSeconds *int             `json:"time_taken_seconds,omitempty"`
	Score            *int             `json:"score,omitempty"`
	Answers          []AnswerResponse `json:"answers,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// Pagination описывает блок пагинации в списочных ответах
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedSessionsResponse представляет пагинированный список сессий
type PaginatedSessionsResponse struct {
	Sessions   []*SessionResponse `json:"sessions"`
	Pagination Pagination         `json:"pagination"`
}

// NewAnswerResponse создает DTO для одного ответа
func NewAnswerResponse(a *entity.QuizAnswer) *AnswerResponse {
	if a == nil {
		return nil
	}
	return &AnswerResponse{
		ID:                a.ID,
		SessionID:         a.SessionID,
		QuestionNumber:    a.QuestionNumber,
		IsCorrect:         a.IsCorrect,
		TimeTakenMs:       a.TimeTakenMs,
		TargetNote:        a.TargetNote,
		SelectedNote:      a.SelectedNote,
		StringNumber:      a.StringNumber,
		FretPosition:      a.FretPosition,
		RootNote:          a.RootNote,
		ChordType:         a.ChordType,
		SelectedPositions: []entity.Position(a.SelectedPositions),
		TargetInterval:    a.TargetInterval,
		SelectedInterval:  a.SelectedInterval,
		CreatedAt:         a.CreatedAt,
	}
}

// NewSessionResponse создает DTO для сессии.
// includeAnswers управляет включением журнала ответов в ответ.
func NewSessionResponse(session *entity.QuizSession, includeAnswers bool) *SessionResponse {
	if session == nil {
		return nil
	}

	var answersDTO []AnswerResponse
	if includeAnswers {
		answersDTO = make([]AnswerResponse, len(session.Answers))
		for i := range session.Answers {
			answersDTO[i] = *NewAnswerResponse(&session.Answers[i])
		}
	}

	return &SessionResponse{
		ID:               session.ID,
		UserID:           session.UserID,
		QuizType:         session.QuizType,
		Difficulty:       session.Difficulty,
		TimeLimitSeconds: session.TimeLimitSeconds,
		Status:           session.Status,
		StartedAt:        session.StartedAt,
		CompletedAt:      session.CompletedAt,
		TimeTakenSeconds: session.TimeTakenSeconds,
		Score:            session.Score,
		Answers:          answersDTO,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
	}
}

// NewListAnswerResponse создает слайс DTO для журнала ответов
func NewListAnswerResponse(answers []entity.QuizAnswer) []*AnswerResponse {
	list := make([]*AnswerResponse, len(answers))
	for i := range answers {
		list[i] = NewAnswerResponse(&answers[i])
	}
	return list
}

// NewPaginatedSessionsResponse создает DTO для пагинированного списка сессий
func NewPaginatedSessionsResponse(sessions []entity.QuizSession, total int64, page, perPage int) *PaginatedSessionsResponse {
	list := make([]*SessionResponse, len(sessions))
	for i := range sessions {
		list[i] = NewSessionResponse(&sessions[i], false)
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return &PaginatedSessionsResponse{
		Sessions: list,
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		},
	}
}
