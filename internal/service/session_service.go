package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
	"github.com/yourusername/fretboard-api/internal/service/quizrules"
	"github.com/yourusername/fretboard-api/internal/websocket"
)

// SessionService управляет жизненным циклом сессий викторины:
// открытие, чтение, закрытие. Валидация команд и правила переходов
// делегируются пакету quizrules.
type SessionService struct {
	sessionRepo repository.SessionRepository
	answerRepo  repository.AnswerRepository
	stats       *StatsService
	notifier    EventNotifier
}

// NewSessionService создает новый сервис сессий
func NewSessionService(
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	stats *StatsService,
	notifier EventNotifier,
) *SessionService {
	if notifier == nil {
		notifier = NoOpNotifier{}
	}
	return &SessionService{
		sessionRepo: sessionRepo,
		answerRepo:  answerRepo,
		stats:       stats,
		notifier:    notifier,
	}
}

// OpenSession открывает новую сессию викторины.
// После валидации создание всегда успешно: назначается свежий идентификатор,
// started_at фиксируется временем принятия команды.
func (s *SessionService) OpenSession(userID uint, cmd quizrules.OpenSessionCommand) (*entity.QuizSession, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	session := &entity.QuizSession{
		ID:               uuid.NewString(),
		UserID:           userID,
		QuizType:         cmd.QuizType,
		Difficulty:       cmd.Difficulty,
		TimeLimitSeconds: cmd.TimeLimitSeconds,
		Status:           entity.SessionStatusInProgress,
		StartedAt:        time.Now().UTC(),
	}

	if err := s.sessionRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[SessionService] User %d opened session %s (%s/%s)", userID, session.ID, session.QuizType, session.Difficulty)
	return session, nil
}

// GetSession возвращает сессию пользователя вместе с ответами.
// Чужие сессии отдаются как NotFound, чтобы не раскрывать их существование.
func (s *SessionService) GetSession(userID uint, sessionID string) (*entity.QuizSession, error) {
	session, err := s.sessionRepo.GetWithAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

// ListSessions возвращает страницу сессий пользователя.
// page начинается с 1; limit ограничен 1..100.
func (s *SessionService) ListSessions(userID uint, filters repository.SessionFilters, sort repository.SessionSort, page, limit int) ([]entity.QuizSession, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit
	return s.sessionRepo.ListByUser(userID, filters, sort, limit, offset)
}

// CloseSession переводит сессию in_progress в терминальный статус.
// При завершении (completed) итоговый счет вычисляется из журнала ответов.
/// Конкурентные закрытия разрешает условный UPDATE в репозитории: из двух
// побеждает ровно одно, проигравшее получает ErrConflict.
func (s *SessionService) CloseSession(userID uint, sessionID string, cmd quizrules.CloseSessionCommand) (*entity.QuizSession, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	if err := quizrules.Transition(session.Status, cmd.TargetStatus); err != nil {
		return nil, err
	}

	update := repository.SessionCloseUpdate{
		Status:           cmd.TargetStatus,
		CompletedAt:      time.Now().UTC(),
		TimeTakenSeconds: cmd.TimeTakenSeconds,
	}

	if cmd.TargetStatus == entity.SessionStatusCompleted {
		correct, total, err := s.answerRepo.CountBySession(sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to count answers for session %s: %w", sessionID, err)
		}
		score := quizrules.CalculateScore(correct, total)
		update.Score = &score
	}

	closed, err := s.sessionRepo.AtomicClose(sessionID, userID, update)
	if err != nil {
		return nil, err
	}

	// Производная аналитика пересчитывается при следующем запросе
	s.stats.InvalidateUser(userID)

	eventType := websocket.SESSION_ABANDONED
	if closed.IsCompleted() {
		eventType = websocket.SESSION_COMPLETED
	}
	s.notifier.NotifyUser(userID, eventType, closed)

	if closed.IsCompleted() {
		s.notifyStreak(userID)
	}

	log.Printf("[SessionService] User %d closed session %s as %s", userID, sessionID, closed.Status)
	return closed, nil
}

// notifyStreak отправляет владельцу обновленную серию практики
func (s *SessionService) notifyStreak(userID uint) {
	streak, err := s.stats.Streak(userID)
	if err != nil {
		log.Printf("[SessionService] Failed to compute streak for user %d: %v", userID, err)
		return
	}
	s.notifier.NotifyUser(userID, websocket.STREAK_UPDATED, streak)
}
