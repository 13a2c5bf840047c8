package service

import (
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
)

// MockSessionRepo - мок SessionRepository
type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(session *entity.QuizSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionRepo) GetByID(id string) (*entity.QuizSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizSession), args.Error(1)
}

func (m *MockSessionRepo) GetWithAnswers(id string) (*entity.QuizSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizSession), args.Error(1)
}

func (m *MockSessionRepo) ListByUser(userID uint, filters repository.SessionFilters, sort repository.SessionSort, limit, offset int) ([]entity.QuizSession, int64, error) {
	args := m.Called(userID, filters, sort, limit, offset)
	var sessions []entity.QuizSession
	if args.Get(0) != nil {
		sessions = args.Get(0).([]entity.QuizSession)
	}
	return sessions, args.Get(1).(int64), args.Error(2)
}

func (m *MockSessionRepo) GetCompletedByUser(userID uint) ([]entity.QuizSession, error) {
	args := m.Called(userID)
	var sessions []entity.QuizSession
	if args.Get(0) != nil {
		sessions = args.Get(0).([]entity.QuizSession)
	}
	return sessions, args.Error(1)
}

func (m *MockSessionRepo) AtomicClose(id string, userID uint, update repository.SessionCloseUpdate) (*entity.QuizSession, error) {
	args := m.Called(id, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.QuizSession), args.Error(1)
}

func (m *MockSessionRepo) AbandonExpired(now time.Time, grace time.Duration) (int64, error) {
	args := m.Called(now, grace)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnswerRepo - мок AnswerRepository
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Create(answer *entity.QuizAnswer) error {
	args := m.Called(answer)
	return args.Error(0)
}

func (m *MockAnswerRepo) GetBySession(sessionID string) ([]entity.QuizAnswer, error) {
	args := m.Called(sessionID)
	var answers []entity.QuizAnswer
	if args.Get(0) != nil {
		answers = args.Get(0).([]entity.QuizAnswer)
	}
	return answers, args.Error(1)
}

func (m *MockAnswerRepo) CountBySession(sessionID string) (int64, int64, error) {
	args := m.Called(sessionID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnswerRepo) GetAllForUser(userID uint, filters repository.AnswerFilters) ([]entity.QuizAnswer, error) {
	args := m.Called(userID, filters)
	var answers []entity.QuizAnswer
	if args.Get(0) != nil {
		answers = args.Get(0).([]entity.QuizAnswer)
	}
	return answers, args.Error(1)
}

// MockCacheRepo - мок CacheRepository
type MockCacheRepo struct {
	mock.Mock
}

func (m *MockCacheRepo) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepo) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepo) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepo) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

// MockNotifier - мок EventNotifier, фиксирующий отправленные события
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyUser(userID uint, eventType string, data interface{}) {
	m.Called(userID, eventType, data)
}

// newTestStatsService собирает StatsService на моках с отключенным кешем:
// Get/Increment возвращают ошибку, GetJSON - промах, SetJSON - no-op
func newTestStatsService(sessionRepo *MockSessionRepo, answerRepo *MockAnswerRepo) *StatsService {
	cacheRepo := new(MockCacheRepo)
	cacheRepo.On("Get", mock.Anything).Return("", assert.AnError)
	cacheRepo.On("GetJSON", mock.Anything, mock.Anything).Return(assert.AnError)
	cacheRepo.On("SetJSON", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cacheRepo.On("Increment", mock.Anything).Return(int64(1), nil)
	return NewStatsService(sessionRepo, answerRepo, cacheRepo)
}
