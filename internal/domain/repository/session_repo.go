package repository

import (
	"time"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// SessionFilters определяет фильтры для поиска сессий
type SessionFilters struct {
	QuizType   string // Фильтр по типу викторины (find_note, name_note, mark_chord, recognize_interval)
	Difficulty string // Фильтр по сложности (easy, medium, hard)
	Status     string // Фильтр по статусу (in_progress, completed, abandoned)
}

// SessionSort определяет сортировку списка сессий.
// Field должен быть одним из: started_at, completed_at, score.
type SessionSort struct {
	Field string
	Desc  bool
}

// SessionCloseUpdate содержит поля, выставляемые при закрытии сессии
type SessionCloseUpdate struct {
	Status           string
	CompletedAt      time.Time
	TimeTakenSeconds *int
	Score            *int
}

// SessionRepository определяет методы для работы с сессиями викторин
type SessionRepository interface {
	Create(session *entity.QuizSession) error
	GetByID(id string) (*entity.QuizSession, error)
	GetWithAnswers(id string) (*entity.QuizSession, error)
	ListByUser(userID uint, filters SessionFilters, sort SessionSort, limit, offset int) ([]entity.QuizSession, int64, error)
	// GetCompletedByUser возвращает завершенные сессии пользователя (для аналитики)
	GetCompletedByUser(userID uint) ([]entity.QuizSession, error)
	// AtomicClose атомарно переводит сессию in_progress → терминальный статус.
	// Гарантируется условным UPDATE: из двух конкурентных закрытий выигрывает одно.
	// Возвращает ErrNotFound если сессия не существует или принадлежит другому
	// пользователю, ErrConflict если сессия уже в терминальном статусе.
	AtomicClose(id string, userID uint, update SessionCloseUpdate) (*entity.QuizSession, error)
	// AbandonExpired переводит в abandoned все in_progress сессии, у которых
	// истек time_limit_seconds (плюс grace). Возвращает количество затронутых сессий.
	AbandonExpired(now time.Time, grace time.Duration) (int64, error)
}
