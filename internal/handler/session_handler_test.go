package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	"github.com/yourusername/fretboard-api/internal/service"
)

// newAuthedContext создает *gin.Context с raw JSON body и user_id в контексте
func newAuthedContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", uint(1))
	return c, w
}

// ============================================================================
// Validation tests — ошибки до обращения к репозиториям,
// поэтому достаточно сервиса с нулевыми зависимостями
// ============================================================================

func TestCreateSession_ValidationErrors(t *testing.T) {
	handler := NewSessionHandler(&service.SessionService{})

	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantErrorType string
	}{
		{
			name:          "unknown quiz_type",
			body:          `{"quiz_type": "find_chord", "difficulty": "easy"}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "unknown difficulty",
			body:          `{"quiz_type": "find_note", "difficulty": "expert"}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "hard without time limit",
			body:          `{"quiz_type": "find_note", "difficulty": "hard"}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "fractional time limit",
			body:          `{"quiz_type": "find_note", "difficulty": "hard", "time_limit_seconds": 60.5}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "zero time limit",
			body:          `{"quiz_type": "find_note", "difficulty": "hard", "time_limit_seconds": 0}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "malformed json",
			body:          `{"quiz_type": `,
			wantStatus:    http.StatusBadRequest,
			wantErrorType: "invalid_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newAuthedContext(http.MethodPost, "/api/sessions", tt.body)

			handler.CreateSession(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantErrorType, resp["error_type"])
		})
	}
}

// listRecordingSessionRepo фиксирует аргументы последнего вызова ListByUser
type listRecordingSessionRepo struct {
	lastFilters repository.SessionFilters
	lastSort    repository.SessionSort
	lastLimit   int
	lastOffset  int
}

func (r *listRecordingSessionRepo) Create(*entity.QuizSession) error { return nil }
func (r *listRecordingSessionRepo) GetByID(string) (*entity.QuizSession, error) {
	return nil, nil
}
func (r *listRecordingSessionRepo) GetWithAnswers(string) (*entity.QuizSession, error) {
	return nil, nil
}
func (r *listRecordingSessionRepo) GetCompletedByUser(uint) ([]entity.QuizSession, error) {
	return nil, nil
}
func (r *listRecordingSessionRepo) AtomicClose(string, uint, repository.SessionCloseUpdate) (*entity.QuizSession, error) {
	return nil, nil
}
func (r *listRecordingSessionRepo) AbandonExpired(time.Time, time.Duration) (int64, error) {
	return 0, nil
}

func (r *listRecordingSessionRepo) ListByUser(userID uint, filters repository.SessionFilters, sort repository.SessionSort, limit, offset int) ([]entity.QuizSession, int64, error) {
	r.lastFilters = filters
	r.lastSort = sort
	r.lastLimit = limit
	r.lastOffset = offset
	return nil, 0, nil
}

func TestListSessions_DefaultSort(t *testing.T) {
	repo := &listRecordingSessionRepo{}
	handler := NewSessionHandler(service.NewSessionService(repo, nil, nil, nil))

	c, w := newAuthedContext(http.MethodGet, "/api/sessions", "")

	handler.ListSessions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed_at", repo.lastSort.Field)
	assert.True(t, repo.lastSort.Desc)
	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, 0, repo.lastOffset)
}

func TestListSessions_SortOverride(t *testing.T) {
	repo := &listRecordingSessionRepo{}
	handler := NewSessionHandler(service.NewSessionService(repo, nil, nil, nil))

	c, w := newAuthedContext(http.MethodGet, "/api/sessions?sort=started_at&order=asc&quiz_type=find_note", "")

	handler.ListSessions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "started_at", repo.lastSort.Field)
	assert.False(t, repo.lastSort.Desc)
	assert.Equal(t, "find_note", repo.lastFilters.QuizType)
}

func TestCreateSession_RequiresAuthContext(t *testing.T) {
	handler := NewSessionHandler(&service.SessionService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/sessions", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.CreateSession(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCloseSession_ValidationErrors(t *testing.T) {
	handler := NewSessionHandler(&service.SessionService{})

	tests := []struct {
		name          string
		body          string
		wantStatus    int
		wantErrorType string
	}{
		{
			name:          "completed without time_taken",
			body:          `{"status": "completed"}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "fractional time_taken",
			body:          `{"status": "completed", "time_taken_seconds": 95.5}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
		{
			name:          "negative time_taken",
			body:          `{"status": "completed", "time_taken_seconds": -1}`,
			wantStatus:    http.StatusUnprocessableEntity,
			wantErrorType: "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newAuthedContext(http.MethodPatch, "/api/sessions/x", tt.body)
			c.Set("sessionID", "3f1f8a52-0c1f-4f6e-9a3e-1f2d3c4b5a69")

			handler.CloseSession(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantErrorType, resp["error_type"])
		})
	}
}
