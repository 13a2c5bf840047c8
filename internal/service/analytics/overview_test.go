package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

func completedSession(quizType, difficulty string, score, timeTaken int) entity.QuizSession {
	completedAt := time.Now()
	return entity.QuizSession{
		QuizType:         quizType,
		Difficulty:       difficulty,
		Status:           entity.SessionStatusCompleted,
		Score:            &score,
		TimeTakenSeconds: &timeTaken,
		CompletedAt:      &completedAt,
	}
}

func TestComputeOverview_CountsAndAverages(t *testing.T) {
	sessions := []entity.QuizSession{
		completedSession(entity.QuizTypeFindNote, entity.DifficultyEasy, 70, 180),
		completedSession(entity.QuizTypeFindNote, entity.DifficultyHard, 90, 120),
		completedSession(entity.QuizTypeMarkChord, entity.DifficultyEasy, 50, 300),
	}

	overview := ComputeOverview(sessions)

	assert.Equal(t, 3, overview.TotalCompleted)
	assert.Equal(t, 600, overview.TotalTimeSeconds)

	findNote := overview.ByQuizType[entity.QuizTypeFindNote]
	assert.Equal(t, 2, findNote.Count)
	assert.Equal(t, 80, findNote.AverageScore)

	markChord := overview.ByQuizType[entity.QuizTypeMarkChord]
	assert.Equal(t, 1, markChord.Count)
	assert.Equal(t, 50, markChord.AverageScore)

	easy := overview.ByDifficulty[entity.DifficultyEasy]
	assert.Equal(t, 2, easy.Count)
	assert.Equal(t, 60, easy.AverageScore)
}

func TestComputeOverview_EmptyBucketsOmitted(t *testing.T) {
	sessions := []entity.QuizSession{
		completedSession(entity.QuizTypeNameNote, entity.DifficultyMedium, 100, 60),
	}

	overview := ComputeOverview(sessions)

	// Корзины без сессий отсутствуют - никакого деления на ноль
	_, ok := overview.ByQuizType[entity.QuizTypeMarkChord]
	assert.False(t, ok)
	_, ok = overview.ByDifficulty[entity.DifficultyHard]
	assert.False(t, ok)
	require.Contains(t, overview.ByQuizType, entity.QuizTypeNameNote)
}

func TestComputeOverview_SkipsNonCompleted(t *testing.T) {
	abandoned := entity.QuizSession{
		QuizType:   entity.QuizTypeFindNote,
		Difficulty: entity.DifficultyEasy,
		Status:     entity.SessionStatusAbandoned,
	}
	inProgress := entity.QuizSession{
		QuizType:   entity.QuizTypeFindNote,
		Difficulty: entity.DifficultyEasy,
		Status:     entity.SessionStatusInProgress,
	}

	overview := ComputeOverview([]entity.QuizSession{abandoned, inProgress})
	assert.Zero(t, overview.TotalCompleted)
	assert.Empty(t, overview.ByQuizType)
	assert.Empty(t, overview.ByDifficulty)
}

func TestComputeOverview_NewSessionMovesAverage(t *testing.T) {
	// Сценарий из контракта: завершение новой сессии find_note увеличивает
	// count корзины и сдвигает average_score
	sessions := []entity.QuizSession{
		completedSession(entity.QuizTypeFindNote, entity.DifficultyHard, 60, 100),
	}
	before := ComputeOverview(sessions)
	require.Equal(t, 1, before.ByQuizType[entity.QuizTypeFindNote].Count)
	require.Equal(t, 60, before.ByQuizType[entity.QuizTypeFindNote].AverageScore)

	sessions = append(sessions, completedSession(entity.QuizTypeFindNote, entity.DifficultyHard, 70, 180))
	after := ComputeOverview(sessions)
	assert.Equal(t, 2, after.ByQuizType[entity.QuizTypeFindNote].Count)
	assert.Equal(t, 65, after.ByQuizType[entity.QuizTypeFindNote].AverageScore)
}
