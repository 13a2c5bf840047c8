package postgres

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
)

// SessionRepo реализует repository.SessionRepository
type SessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo создает новый репозиторий сессий
func NewSessionRepo(db *gorm.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create создает новую сессию викторины
func (r *SessionRepo) Create(session *entity.QuizSession) error {
	return r.db.Create(session).Error
}

// GetByID возвращает сессию по идентификатору
func (r *SessionRepo) GetByID(id string) (*entity.QuizSession, error) {
	var session entity.QuizSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetWithAnswers возвращает сессию вместе с ответами, отсортированными по question_number
func (r *SessionRepo) GetWithAnswers(id string) (*entity.QuizSession, error) {
	var session entity.QuizSession
	err := r.db.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_number ASC")
	}).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// allowedSortFields содержит whitelist полей сортировки списка сессий
var allowedSortFields = map[string]bool{
	"started_at":   true,
	"completed_at": true,
	"score":        true,
}

// ListByUser возвращает сессии пользователя с фильтрацией, сортировкой и пагинацией.
// Возвращает также общее количество для расчета страниц.
func (r *SessionRepo) ListByUser(userID uint, filters repository.SessionFilters, sort repository.SessionSort, limit, offset int) ([]entity.QuizSession, int64, error) {
	query := r.db.Model(&entity.QuizSession{}).Where("user_id = ?", userID)

	if filters.QuizType != "" {
		query = query.Where("quiz_type = ?", filters.QuizType)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	field := sort.Field
	if !allowedSortFields[field] {
		field = "completed_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	// NULLS LAST: незакрытые сессии уходят в конец при сортировке по completed_at/score
	order := fmt.Sprintf("%s %s NULLS LAST", field, direction)

	var sessions []entity.QuizSession
	err := query.Order(order).Limit(limit).Offset(offset).Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// GetCompletedByUser возвращает все завершенные сессии пользователя для аналитики
func (r *SessionRepo) GetCompletedByUser(userID uint) ([]entity.QuizSession, error) {
	var sessions []entity.QuizSession
	err := r.db.Where("user_id = ? AND status = ?", userID, entity.SessionStatusCompleted).
		Order("completed_at ASC").
		Find(&sessions).Error
	return sessions, err
}

// AtomicClose атомарно переводит сессию из in_progress в терминальный статус.
// Условный UPDATE (status = in_progress) гарантирует, что из двух конкурентных
// закрытий выигрывает ровно одно; проигравшее получает ErrConflict.
func (r *SessionRepo) AtomicClose(id string, userID uint, update repository.SessionCloseUpdate) (*entity.QuizSession, error) {
	values := map[string]interface{}{
		"status":       update.Status,
		"completed_at": update.CompletedAt,
	}
	if update.TimeTakenSeconds != nil {
		values["time_taken_seconds"] = *update.TimeTakenSeconds
	}
	if update.Score != nil {
		values["score"] = *update.Score
	}

	result := r.db.Model(&entity.QuizSession{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, entity.SessionStatusInProgress).
		Updates(values)
	if result.Error != nil {
		return nil, fmt.Errorf("close session %s failed: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		// Различаем: сессия не существует/чужая (NotFound) или уже терминальна (Conflict).
		// Чужие сессии отдаются как NotFound, чтобы не раскрывать их существование.
		var existing entity.QuizSession
		err := r.db.Where("id = ?", id).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound
			}
			return nil, err
		}
		if existing.UserID != userID {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: session is already %s", apperrors.ErrConflict, existing.Status)
	}

	return r.GetByID(id)
}

// AbandonExpired переводит в abandoned все in_progress сессии с истекшим
// лимитом времени. Используется периферийным sweep'ом из main.
func (r *SessionRepo) AbandonExpired(now time.Time, grace time.Duration) (int64, error) {
	cutoff := now.Add(-grace)
	result := r.db.Model(&entity.QuizSession{}).
		Where("status = ? AND time_limit_seconds IS NOT NULL", entity.SessionStatusInProgress).
		Where("started_at + make_interval(secs => time_limit_seconds) < ?", cutoff).
		Updates(map[string]interface{}{
			"status":       entity.SessionStatusAbandoned,
			"completed_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("[SessionRepo] Auto-abandoned %d expired sessions", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
