package analytics

import (
	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// ComputeNoteMastery группирует исходы ответов по питч-классу вопроса
// (target_note, для аккордовых вопросов - root_note) и возвращает статистику
// по всем 12 питч-классам в хроматическом порядке. Питч-классы без попыток
// присутствуют в результате с нулевыми значениями, чтобы клиент мог
// единообразно отрисовать все 12.
func ComputeNoteMastery(answers []entity.QuizAnswer) []NoteMastery {
	byNote := make(map[string]*NoteMastery, len(entity.NoteNames))
	result := make([]NoteMastery, len(entity.NoteNames))
	for i, note := range entity.NoteNames {
		result[i] = NoteMastery{Note: note}
		byNote[note] = &result[i]
	}

	for _, answer := range answers {
		note := answer.MasteryNote()
		record, ok := byNote[note]
		if !ok {
			// Ответ без привязки к ноте (например, интервальный вопрос)
			continue
		}
		record.TotalAttempts++
		if answer.IsCorrect {
			record.CorrectCount++
		} else {
			record.ErrorCount++
		}
	}

	for i := range result {
		result[i].Accuracy = roundPercent(result[i].CorrectCount, result[i].TotalAttempts)
	}

	return result
}
