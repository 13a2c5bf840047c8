package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
)

// AnswerRepo реализует repository.AnswerRepository.
// Журнал ответов append-only: методов изменения и удаления нет.
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий журнала ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Create добавляет ответ в журнал сессии.
// Уникальность (session_id, question_number) обеспечивает unique-индекс:
// из двух конкурентных вставок с одним номером вопроса выигрывает ровно одна,
// проигравшая получает ErrDuplicateQuestion.
func (r *AnswerRepo) Create(answer *entity.QuizAnswer) error {
	if err := r.db.Create(answer).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: question_number %d", repository.ErrDuplicateQuestion, answer.QuestionNumber)
		}
		return err
	}
	return nil
}

// GetBySession возвращает ответы сессии.
// Каноническим ключом упорядочивания является question_number, а не порядок записи.
func (r *AnswerRepo) GetBySession(sessionID string) ([]entity.QuizAnswer, error) {
	var answers []entity.QuizAnswer
	err := r.db.Where("session_id = ?", sessionID).
		Order("question_number ASC").
		Find(&answers).Error
	return answers, err
}

// CountBySession возвращает количество правильных и общее количество ответов сессии
func (r *AnswerRepo) CountBySession(sessionID string) (int64, int64, error) {
	var total, correct int64
	if err := r.db.Model(&entity.QuizAnswer{}).
		Where("session_id = ?", sessionID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&entity.QuizAnswer{}).
		Where("session_id = ? AND is_correct = true", sessionID).
		Count(&correct).Error; err != nil {
		return 0, 0, err
	}
	return correct, total, nil
}

// GetAllForUser возвращает все ответы пользователя через join с сессиями.
// Фильтры применяются к типу викторины сессии и к дате записи ответа.
func (r *AnswerRepo) GetAllForUser(userID uint, filters repository.AnswerFilters) ([]entity.QuizAnswer, error) {
	query := r.db.Model(&entity.QuizAnswer{}).
		Joins("JOIN quiz_sessions ON quiz_sessions.id = quiz_answers.session_id").
		Where("quiz_sessions.user_id = ?", userID)

	if filters.QuizType != "" {
		query = query.Where("quiz_sessions.quiz_type = ?", filters.QuizType)
	}
	if filters.FromDate != nil {
		query = query.Where("quiz_answers.created_at >= ?", *filters.FromDate)
	}

	var answers []entity.QuizAnswer
	err := query.Order("quiz_answers.id ASC").Find(&answers).Error
	return answers, err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
