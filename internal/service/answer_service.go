package service

import (
	"fmt"
	"log"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
	"github.com/yourusername/fretboard-api/internal/service/quizrules"
	"github.com/yourusername/fretboard-api/internal/websocket"
)

// AnswerService записывает ответы в журнал открытой сессии.
// Журнал append-only; уникальность номера вопроса внутри сессии
// гарантирует репозиторий атомарной вставкой.
type AnswerService struct {
	sessionRepo repository.SessionRepository
	answerRepo  repository.AnswerRepository
	stats       *StatsService
	notifier    EventNotifier
}

// NewAnswerService создает новый сервис ответов
func NewAnswerService(
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	stats *StatsService,
	notifier EventNotifier,
) *AnswerService {
	if notifier == nil {
		notifier = NoOpNotifier{}
	}
	return &AnswerService{
		sessionRepo: sessionRepo,
		answerRepo:  answerRepo,
		stats:       stats,
		notifier:    notifier,
	}
}

// SubmitAnswer валидирует и записывает ответ в журнал сессии.
// Ответ принимается только в сессию владельца в статусе in_progress;
// повторный номер вопроса дает ErrDuplicateQuestion.
func (s *AnswerService) SubmitAnswer(userID uint, sessionID string, cmd quizrules.SubmitAnswerCommand) (*entity.QuizAnswer, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	// Проверка статуса и вставка не атомарны: ответ, гонящийся с
	// конкурентным закрытием, может записаться в уже закрытую сессию
	// и не войти в итоговый счет.
	if !session.IsInProgress() {
		return nil, fmt.Errorf("%w: session is %s", repository.ErrSessionClosed, session.Status)
	}

	if err := cmd.Validate(session.QuizType); err != nil {
		return nil, err
	}

	answer := &entity.QuizAnswer{
		SessionID:         sessionID,
		QuestionNumber:    cmd.QuestionNumber,
		IsCorrect:         cmd.IsCorrect,
		TimeTakenMs:       cmd.TimeTakenMs,
		TargetNote:        cmd.TargetNote,
		SelectedNote:      cmd.SelectedNote,
		StringNumber:      cmd.StringNumber,
		FretPosition:      cmd.FretPosition,
		RootNote:          cmd.RootNote,
		ChordType:         cmd.ChordType,
		SelectedPositions: entity.PositionList(cmd.SelectedPositions),
		TargetInterval:    cmd.TargetInterval,
		SelectedInterval:  cmd.SelectedInterval,
	}

	if err := s.answerRepo.Create(answer); err != nil {
		return nil, err
	}

	s.stats.InvalidateUser(userID)
	s.notifier.NotifyUser(userID, websocket.ANSWER_RECORDED, answer)

	log.Printf("[AnswerService] User %d answered question %d in session %s (correct=%t)", userID, cmd.QuestionNumber, sessionID, cmd.IsCorrect)
	return answer, nil
}

// GetSessionAnswers возвращает ответы сессии в порядке question_number
func (s *AnswerService) GetSessionAnswers(userID uint, sessionID string) ([]entity.QuizAnswer, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return s.answerRepo.GetBySession(sessionID)
}
