package service

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	"github.com/yourusername/fretboard-api/internal/service/analytics"
)

// statsCacheTTL ограничивает время жизни кешированной аналитики.
// Кеш - только ускорение: источником истины всегда остается журнал,
// и любая запись в него сдвигает версию кеша пользователя.
const statsCacheTTL = 5 * time.Minute

// StatsService отдает производную аналитику: mastery по нотам, карту
// ошибок грифа, сводку по сессиям и серию практики. Все значения
// пересчитываются из журнала по запросу (pull-based) и кешируются в Redis.
type StatsService struct {
	sessionRepo repository.SessionRepository
	answerRepo  repository.AnswerRepository
	cacheRepo   repository.CacheRepository
}

// NewStatsService создает новый сервис аналитики
func NewStatsService(
	sessionRepo repository.SessionRepository,
	answerRepo repository.AnswerRepository,
	cacheRepo repository.CacheRepository,
) *StatsService {
	return &StatsService{
		sessionRepo: sessionRepo,
		answerRepo:  answerRepo,
		cacheRepo:   cacheRepo,
	}
}

// OverviewStats объединяет сводку по сессиям и серию практики
type OverviewStats struct {
	analytics.StatsOverview
	Streak analytics.Streak `json:"streak"`
}

// NoteMastery возвращает статистику по всем 12 питч-классам
func (s *StatsService) NoteMastery(userID uint) ([]analytics.NoteMastery, error) {
	key := s.cacheKey(userID, "mastery")
	var cached []analytics.NoteMastery
	if key != "" && s.cacheRepo.GetJSON(key, &cached) == nil {
		return cached, nil
	}

	answers, err := s.answerRepo.GetAllForUser(userID, repository.AnswerFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for user %d: %w", userID, err)
	}

	mastery := analytics.ComputeNoteMastery(answers)
	s.cachePut(key, mastery)
	return mastery, nil
}

// Heatmap возвращает карту ошибок грифа, опционально отфильтрованную
// по типу викторины и дате
func (s *StatsService) Heatmap(userID uint, filters repository.AnswerFilters, maxFret int) (analytics.Heatmap, error) {
	key := s.cacheKey(userID, heatmapKeySuffix(filters, maxFret))
	var cached analytics.Heatmap
	if key != "" && s.cacheRepo.GetJSON(key, &cached) == nil {
		return cached, nil
	}

	answers, err := s.answerRepo.GetAllForUser(userID, filters)
	if err != nil {
		return analytics.Heatmap{}, fmt.Errorf("failed to load answers for user %d: %w", userID, err)
	}

	heatmap := analytics.ComputeHeatmap(answers, maxFret)
	s.cachePut(key, heatmap)
	return heatmap, nil
}

// Overview возвращает сводную статистику и серию практики
func (s *StatsService) Overview(userID uint) (OverviewStats, error) {
	key := s.cacheKey(userID, "overview")
	var cached OverviewStats
	if key != "" && s.cacheRepo.GetJSON(key, &cached) == nil {
		return cached, nil
	}

	sessions, err := s.sessionRepo.GetCompletedByUser(userID)
	if err != nil {
		return OverviewStats{}, fmt.Errorf("failed to load sessions for user %d: %w", userID, err)
	}

	overview := OverviewStats{
		StatsOverview: analytics.ComputeOverview(sessions),
		Streak:        streakFromSessions(sessions),
	}
	s.cachePut(key, overview)
	return overview, nil
}

// Streak возвращает текущую и максимальную серию практики
func (s *StatsService) Streak(userID uint) (analytics.Streak, error) {
	sessions, err := s.sessionRepo.GetCompletedByUser(userID)
	if err != nil {
		return analytics.Streak{}, fmt.Errorf("failed to load sessions for user %d: %w", userID, err)
	}
	return streakFromSessions(sessions), nil
}

// InvalidateUser сдвигает версию кеша пользователя: новые запросы
// пересчитывают аналитику из журнала, старые ключи доживают TTL
func (s *StatsService) InvalidateUser(userID uint) {
	if _, err := s.cacheRepo.Increment(s.versionKey(userID)); err != nil {
		log.Printf("[StatsService] Failed to bump cache version for user %d: %v", userID, err)
	}
}

// streakFromSessions вычисляет серию по временам завершения сессий
func streakFromSessions(sessions []entity.QuizSession) analytics.Streak {
	completions := make([]time.Time, 0, len(sessions))
	for _, session := range sessions {
		if session.CompletedAt != nil {
			completions = append(completions, *session.CompletedAt)
		}
	}
	return analytics.ComputeStreak(completions, time.Now().UTC())
}

// cacheKey строит версионированный ключ кеша; пустая строка отключает кеш
func (s *StatsService) cacheKey(userID uint, suffix string) string {
	version := int64(0)
	raw, err := s.cacheRepo.Get(s.versionKey(userID))
	if err == nil {
		if parsed, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			version = parsed
		}
	}
	return fmt.Sprintf("stats:%d:v%d:%s", userID, version, suffix)
}

// cachePut сохраняет значение в кеш best-effort
func (s *StatsService) cachePut(key string, value interface{}) {
	if key == "" {
		return
	}
	if err := s.cacheRepo.SetJSON(key, value, statsCacheTTL); err != nil {
		log.Printf("[StatsService] Failed to cache %s: %v", key, err)
	}
}

func (s *StatsService) versionKey(userID uint) string {
	return fmt.Sprintf("stats:%d:ver", userID)
}

// heatmapKeySuffix кодирует параметры карты ошибок в суффикс ключа кеша
func heatmapKeySuffix(filters repository.AnswerFilters, maxFret int) string {
	from := ""
	if filters.FromDate != nil {
		from = filters.FromDate.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("heatmap:%s:%s:%d", filters.QuizType, from, maxFret)
}
