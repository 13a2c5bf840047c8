package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func noteAnswer(note string, correct bool) entity.QuizAnswer {
	return entity.QuizAnswer{TargetNote: strPtr(note), IsCorrect: correct}
}

func chordAnswer(root string, correct bool) entity.QuizAnswer {
	return entity.QuizAnswer{RootNote: strPtr(root), IsCorrect: correct}
}

func TestComputeNoteMastery_AllTwelveClassesPresent(t *testing.T) {
	mastery := ComputeNoteMastery(nil)
	require.Len(t, mastery, 12, "все 12 питч-классов присутствуют даже без попыток")

	for i, record := range mastery {
		assert.Equal(t, entity.NoteNames[i], record.Note)
		assert.Zero(t, record.TotalAttempts)
		assert.Zero(t, record.Accuracy, "accuracy при нуле попыток ровно 0, а не NaN")
	}
}

func TestComputeNoteMastery_GroupsByPitchClass(t *testing.T) {
	answers := []entity.QuizAnswer{
		noteAnswer("A", true),
		noteAnswer("A", true),
		noteAnswer("A", false),
		chordAnswer("A", true), // root_note аккордового вопроса попадает в тот же питч-класс
		noteAnswer("C#", false),
	}

	mastery := ComputeNoteMastery(answers)
	byNote := make(map[string]NoteMastery)
	for _, record := range mastery {
		byNote[record.Note] = record
	}

	a := byNote["A"]
	assert.Equal(t, 4, a.TotalAttempts)
	assert.Equal(t, 3, a.CorrectCount)
	assert.Equal(t, 1, a.ErrorCount)
	assert.Equal(t, 75, a.Accuracy)

	cSharp := byNote["C#"]
	assert.Equal(t, 1, cSharp.TotalAttempts)
	assert.Equal(t, 0, cSharp.CorrectCount)
	assert.Equal(t, 0, cSharp.Accuracy)
}

func TestComputeNoteMastery_FlatsNormalizedToSharps(t *testing.T) {
	answers := []entity.QuizAnswer{
		noteAnswer("Bb", true),
		noteAnswer("A#", false),
	}

	mastery := ComputeNoteMastery(answers)
	for _, record := range mastery {
		if record.Note == "A#" {
			assert.Equal(t, 2, record.TotalAttempts, "Bb и A# - один питч-класс")
			assert.Equal(t, 50, record.Accuracy)
			return
		}
	}
	t.Fatal("питч-класс A# не найден в результате")
}

func TestComputeNoteMastery_RoundsHalfUp(t *testing.T) {
	// 1 из 3 = 33.33 -> 33; 2 из 3 = 66.67 -> 67
	answers := []entity.QuizAnswer{
		noteAnswer("E", true), noteAnswer("E", false), noteAnswer("E", false),
		noteAnswer("G", true), noteAnswer("G", true), noteAnswer("G", false),
	}

	mastery := ComputeNoteMastery(answers)
	byNote := make(map[string]int)
	for _, record := range mastery {
		byNote[record.Note] = record.Accuracy
	}
	assert.Equal(t, 33, byNote["E"])
	assert.Equal(t, 67, byNote["G"])
}

func TestComputeNoteMastery_SkipsIntervalAnswers(t *testing.T) {
	// Интервальные вопросы не привязаны к ноте и не влияют на mastery
	answers := []entity.QuizAnswer{
		{TargetInterval: strPtr("perfect_fifth"), SelectedInterval: strPtr("perfect_fifth"), IsCorrect: true},
		noteAnswer("D", true),
	}

	mastery := ComputeNoteMastery(answers)
	total := 0
	for _, record := range mastery {
		total += record.TotalAttempts
	}
	assert.Equal(t, 1, total)
}

func TestComputeNoteMastery_Deterministic(t *testing.T) {
	answers := []entity.QuizAnswer{
		noteAnswer("A", true), noteAnswer("B", false), chordAnswer("C", true),
	}
	first := ComputeNoteMastery(answers)
	second := ComputeNoteMastery(answers)
	assert.Equal(t, first, second, "повторный расчет на том же срезе дает идентичный результат")
}
