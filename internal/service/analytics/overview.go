package analytics

import (
	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// ComputeOverview строит сводную статистику по завершенным сессиям:
// общее количество, суммарное время и разбивки по типу викторины и
// сложности. Сессии в статусах in_progress и abandoned не учитываются.
// Корзины без сессий отсутствуют в разбивках - деления на ноль нет.
func ComputeOverview(sessions []entity.QuizSession) StatsOverview {
	overview := StatsOverview{
		ByQuizType:   make(map[string]BucketStat),
		ByDifficulty: make(map[string]BucketStat),
	}

	typeScores := make(map[string]int)
	difficultyScores := make(map[string]int)

	for _, session := range sessions {
		if !session.IsCompleted() {
			continue
		}
		overview.TotalCompleted++
		if session.TimeTakenSeconds != nil {
			overview.TotalTimeSeconds += *session.TimeTakenSeconds
		}

		score := 0
		if session.Score != nil {
			score = *session.Score
		}

		bucket := overview.ByQuizType[session.QuizType]
		bucket.Count++
		overview.ByQuizType[session.QuizType] = bucket
		typeScores[session.QuizType] += score

		bucket = overview.ByDifficulty[session.Difficulty]
		bucket.Count++
		overview.ByDifficulty[session.Difficulty] = bucket
		difficultyScores[session.Difficulty] += score
	}

	for quizType, bucket := range overview.ByQuizType {
		bucket.AverageScore = roundAverage(typeScores[quizType], bucket.Count)
		overview.ByQuizType[quizType] = bucket
	}
	for difficulty, bucket := range overview.ByDifficulty {
		bucket.AverageScore = roundAverage(difficultyScores[difficulty], bucket.Count)
		overview.ByDifficulty[difficulty] = bucket
	}

	return overview
}

// roundAverage вычисляет среднее sum/count с округлением half-up
func roundAverage(sum, count int) int {
	if count <= 0 {
		return 0
	}
	return (2*sum + count) / (2 * count)
}
