package repository

import (
	"time"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// AnswerFilters определяет фильтры для выборки ответов при аналитике
type AnswerFilters struct {
	QuizType string     // Фильтр по типу викторины сессии
	FromDate *time.Time // Только ответы, записанные после этой даты
}

// AnswerRepository определяет методы для работы с журналом ответов.
// Журнал append-only: записи не изменяются и не удаляются.
type AnswerRepository interface {
	// Create добавляет ответ в журнал. Уникальность (session_id, question_number)
	// гарантируется unique-индексом; при нарушении возвращает ErrDuplicateQuestion.
	Create(answer *entity.QuizAnswer) error
	// GetBySession возвращает ответы сессии в порядке question_number
	GetBySession(sessionID string) ([]entity.QuizAnswer, error)
	// CountBySession возвращает количество правильных ответов и общее количество
	CountBySession(sessionID string) (correct int64, total int64, err error)
	// GetAllForUser возвращает все ответы пользователя (через join с сессиями)
	GetAllForUser(userID uint, filters AnswerFilters) ([]entity.QuizAnswer, error)
}
