package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
	"github.com/yourusername/fretboard-api/internal/service/quizrules"
	"github.com/yourusername/fretboard-api/internal/websocket"
)

func intPtr(v int) *int { return &v }

func newSessionServiceForTest(sessionRepo *MockSessionRepo, answerRepo *MockAnswerRepo, notifier *MockNotifier) *SessionService {
	stats := newTestStatsService(sessionRepo, answerRepo)
	return NewSessionService(sessionRepo, answerRepo, stats, notifier)
}

func TestOpenSession_Success(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	sessionRepo.On("Create", mock.AnythingOfType("*entity.QuizSession")).Return(nil)

	session, err := svc.OpenSession(1, quizrules.OpenSessionCommand{
		QuizType:   entity.QuizTypeFindNote,
		Difficulty: entity.DifficultyEasy,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), session.UserID)
	assert.Equal(t, entity.SessionStatusInProgress, session.Status)
	assert.Nil(t, session.TimeLimitSeconds)
	assert.False(t, session.StartedAt.IsZero())

	// Идентификатор - валидный UUID
	_, parseErr := uuid.Parse(session.ID)
	assert.NoError(t, parseErr)

	sessionRepo.AssertExpectations(t)
}

func TestOpenSession_HardRequiresTimeLimit(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	_, err := svc.OpenSession(1, quizrules.OpenSessionCommand{
		QuizType:   entity.QuizTypeNameNote,
		Difficulty: entity.DifficultyHard,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, quizrules.ErrMissingConditionalField)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// До репозитория команда не дошла
	sessionRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGetSession_ForeignUserLooksLikeNotFound(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	sessionRepo.On("GetWithAnswers", "sess-1").Return(&entity.QuizSession{
		ID:     "sess-1",
		UserID: 42,
		Status: entity.SessionStatusInProgress,
	}, nil)

	_, err := svc.GetSession(1, "sess-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListSessions_ClampsPagination(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	filters := repository.SessionFilters{}
	sort := repository.SessionSort{Field: "started_at", Desc: true}

	// page=0, limit=500 приводятся к page=1, limit=20
	sessionRepo.On("ListByUser", uint(1), filters, sort, 20, 0).Return([]entity.QuizSession{}, int64(0), nil)

	_, total, err := svc.ListSessions(1, filters, sort, 0, 500)

	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	sessionRepo.AssertExpectations(t)
}

func TestCloseSession_CompletedComputesScore(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	notifier := new(MockNotifier)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, notifier)

	open := &entity.QuizSession{ID: "sess-1", UserID: 1, Status: entity.SessionStatusInProgress}
	completedAt := time.Now().UTC()
	closed := &entity.QuizSession{
		ID:          "sess-1",
		UserID:      1,
		Status:      entity.SessionStatusCompleted,
		CompletedAt: &completedAt,
		Score:       intPtr(70),
	}

	sessionRepo.On("GetByID", "sess-1").Return(open, nil)
	answerRepo.On("CountBySession", "sess-1").Return(int64(7), int64(10), nil)
	sessionRepo.On("AtomicClose", "sess-1", uint(1), mock.MatchedBy(func(u repository.SessionCloseUpdate) bool {
		return u.Status == entity.SessionStatusCompleted && u.Score != nil && *u.Score == 70
	})).Return(closed, nil)
	sessionRepo.On("GetCompletedByUser", uint(1)).Return([]entity.QuizSession{*closed}, nil)
	notifier.On("NotifyUser", uint(1), websocket.SESSION_COMPLETED, mock.Anything).Return()
	notifier.On("NotifyUser", uint(1), websocket.STREAK_UPDATED, mock.Anything).Return()

	result, err := svc.CloseSession(1, "sess-1", quizrules.CloseSessionCommand{
		TargetStatus:     entity.SessionStatusCompleted,
		TimeTakenSeconds: intPtr(120),
	})

	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 70, *result.Score)

	sessionRepo.AssertExpectations(t)
	answerRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCloseSession_AbandonedSkipsScore(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	notifier := new(MockNotifier)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, notifier)

	open := &entity.QuizSession{ID: "sess-1", UserID: 1, Status: entity.SessionStatusInProgress}
	abandoned := &entity.QuizSession{ID: "sess-1", UserID: 1, Status: entity.SessionStatusAbandoned}

	sessionRepo.On("GetByID", "sess-1").Return(open, nil)
	sessionRepo.On("AtomicClose", "sess-1", uint(1), mock.MatchedBy(func(u repository.SessionCloseUpdate) bool {
		return u.Status == entity.SessionStatusAbandoned && u.Score == nil
	})).Return(abandoned, nil)
	notifier.On("NotifyUser", uint(1), websocket.SESSION_ABANDONED, mock.Anything).Return()

	result, err := svc.CloseSession(1, "sess-1", quizrules.CloseSessionCommand{
		TargetStatus: entity.SessionStatusAbandoned,
	})

	require.NoError(t, err)
	assert.Nil(t, result.Score)

	// Для abandoned счет не считается и серия не пересчитывается
	answerRepo.AssertNotCalled(t, "CountBySession", mock.Anything)
	notifier.AssertNotCalled(t, "NotifyUser", uint(1), websocket.STREAK_UPDATED, mock.Anything)
}

func TestCloseSession_CompletedRequiresTimeTaken(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	_, err := svc.CloseSession(1, "sess-1", quizrules.CloseSessionCommand{
		TargetStatus: entity.SessionStatusCompleted,
	})

	assert.ErrorIs(t, err, quizrules.ErrMissingConditionalField)
	sessionRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestCloseSession_AlreadyTerminal(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	completedAt := time.Now().UTC()
	sessionRepo.On("GetByID", "sess-1").Return(&entity.QuizSession{
		ID:          "sess-1",
		UserID:      1,
		Status:      entity.SessionStatusCompleted,
		CompletedAt: &completedAt,
	}, nil)

	_, err := svc.CloseSession(1, "sess-1", quizrules.CloseSessionCommand{
		TargetStatus:     entity.SessionStatusCompleted,
		TimeTakenSeconds: intPtr(90),
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	sessionRepo.AssertNotCalled(t, "AtomicClose", mock.Anything, mock.Anything, mock.Anything)
}

func TestCloseSession_InvalidTargetStatus(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	sessionRepo.On("GetByID", "sess-1").Return(&entity.QuizSession{
		ID:     "sess-1",
		UserID: 1,
		Status: entity.SessionStatusInProgress,
	}, nil)

	_, err := svc.CloseSession(1, "sess-1", quizrules.CloseSessionCommand{
		TargetStatus: entity.SessionStatusInProgress,
	})

	assert.ErrorIs(t, err, repository.ErrInvalidStatusTransition)
}

func TestCloseSession_RepoError(t *testing.T) {
	sessionRepo := new(MockSessionRepo)
	answerRepo := new(MockAnswerRepo)
	svc := newSessionServiceForTest(sessionRepo, answerRepo, nil)

	repoErr := errors.New("connection reset")
	sessionRepo.On("GetByID", "sess-1").Return(nil, repoErr)

	_, err := svc.CloseSession(1, "sess-1", quizrules.CloseSessionCommand{
		TargetStatus: entity.SessionStatusAbandoned,
	})

	assert.ErrorIs(t, err, repoErr)
}
