package quizrules

import (
	"encoding/json"
	"fmt"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// OpenSessionCommand представляет команду открытия сессии викторины
type OpenSessionCommand struct {
	QuizType         string
	Difficulty       string
	TimeLimitSeconds *int
}

// Validate проверяет команду открытия сессии.
// Правило условного поля: time_limit_seconds обязателен (и >= 1) при
// difficulty=hard; для easy/medium опционален, но если указан - положительный.
func (c OpenSessionCommand) Validate() error {
	if !entity.IsValidQuizType(c.QuizType) {
		return fmt.Errorf("%w: quiz_type %q", ErrInvalidEnum, c.QuizType)
	}
	if !entity.IsValidDifficulty(c.Difficulty) {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidEnum, c.Difficulty)
	}

	if c.Difficulty == entity.DifficultyHard {
		if c.TimeLimitSeconds == nil {
			return fmt.Errorf("%w: time_limit_seconds is required for hard difficulty", ErrMissingConditionalField)
		}
	}
	if c.TimeLimitSeconds != nil && *c.TimeLimitSeconds < 1 {
		return fmt.Errorf("%w: time_limit_seconds must be >= 1", ErrOutOfRange)
	}

	return nil
}

// CloseSessionCommand представляет команду закрытия сессии викторины
type CloseSessionCommand struct {
	TargetStatus     string
	TimeTakenSeconds *int
}

// Validate проверяет команду закрытия сессии.
// Правило условного поля: time_taken_seconds обязателен (и >= 0) при
// status=completed; для abandoned опционален, но если указан - неотрицательный.
// Проверка достижимости целевого статуса выполняется в Transition.
func (c CloseSessionCommand) Validate() error {
	if c.TargetStatus == entity.SessionStatusCompleted && c.TimeTakenSeconds == nil {
		return fmt.Errorf("%w: time_taken_seconds is required to complete a session", ErrMissingConditionalField)
	}
	if c.TimeTakenSeconds != nil && *c.TimeTakenSeconds < 0 {
		return fmt.Errorf("%w: time_taken_seconds must be >= 0", ErrOutOfRange)
	}
	return nil
}

// SubmitAnswerCommand представляет команду записи ответа в журнал сессии
type SubmitAnswerCommand struct {
	QuestionNumber int
	IsCorrect      bool
	TimeTakenMs    *int64

	TargetNote   *string
	SelectedNote *string

	StringNumber *int
	FretPosition *int

	RootNote          *string
	ChordType         *string
	SelectedPositions []entity.Position

	TargetInterval   *string
	SelectedInterval *string
}

// Validate проверяет команду ответа против типа викторины сессии.
// Обязательны ровно те поля, которые относятся к quizType; поля других
// типов принимаются как null, но никогда не требуются.
func (c SubmitAnswerCommand) Validate(quizType string) error {
	if c.QuestionNumber < 1 || c.QuestionNumber > entity.QuestionsPerSession {
		return fmt.Errorf("%w: question_number must be in [1,%d]", ErrOutOfRange, entity.QuestionsPerSession)
	}
	if c.TimeTakenMs != nil && *c.TimeTakenMs < 0 {
		return fmt.Errorf("%w: time_taken_ms must be >= 0", ErrOutOfRange)
	}

	// Позиционные поля валидируются везде, где присутствуют
	if err := c.validatePositions(); err != nil {
		return err
	}
	if err := c.validateNotes(); err != nil {
		return err
	}

	switch quizType {
	case entity.QuizTypeFindNote:
		if c.TargetNote == nil {
			return fmt.Errorf("%w: target_note is required for find_note", ErrMissingConditionalField)
		}
		if c.StringNumber == nil || c.FretPosition == nil {
			return fmt.Errorf("%w: string_number and fret_position are required for find_note", ErrMissingConditionalField)
		}
	case entity.QuizTypeNameNote:
		if c.TargetNote == nil {
			return fmt.Errorf("%w: target_note is required for name_note", ErrMissingConditionalField)
		}
		if c.SelectedNote == nil {
			return fmt.Errorf("%w: selected_note is required for name_note", ErrMissingConditionalField)
		}
	case entity.QuizTypeMarkChord:
		if c.RootNote == nil {
			return fmt.Errorf("%w: root_note is required for mark_chord", ErrMissingConditionalField)
		}
		if c.ChordType == nil {
			return fmt.Errorf("%w: chord_type is required for mark_chord", ErrMissingConditionalField)
		}
		if len(c.SelectedPositions) == 0 {
			return fmt.Errorf("%w: selected_positions are required for mark_chord", ErrMissingConditionalField)
		}
	case entity.QuizTypeRecognizeInterval:
		if c.TargetInterval == nil {
			return fmt.Errorf("%w: target_interval is required for recognize_interval", ErrMissingConditionalField)
		}
		if c.SelectedInterval == nil {
			return fmt.Errorf("%w: selected_interval is required for recognize_interval", ErrMissingConditionalField)
		}
		if c.StringNumber == nil || c.FretPosition == nil {
			return fmt.Errorf("%w: reference string_number and fret_position are required for recognize_interval", ErrMissingConditionalField)
		}
	default:
		return fmt.Errorf("%w: quiz_type %q", ErrInvalidEnum, quizType)
	}

	return nil
}

// validatePositions проверяет границы грифа для всех присутствующих позиционных полей
func (c SubmitAnswerCommand) validatePositions() error {
	if c.StringNumber != nil || c.FretPosition != nil {
		if c.StringNumber == nil || c.FretPosition == nil {
			return fmt.Errorf("%w: string_number and fret_position must be supplied together", ErrMissingConditionalField)
		}
		pos := entity.Position{StringNumber: *c.StringNumber, FretPosition: *c.FretPosition}
		if !pos.IsValid() {
			return fmt.Errorf("%w: position (string %d, fret %d) is outside the fretboard", ErrOutOfRange, pos.StringNumber, pos.FretPosition)
		}
	}
	for _, pos := range c.SelectedPositions {
		if !pos.IsValid() {
			return fmt.Errorf("%w: selected position (string %d, fret %d) is outside the fretboard", ErrOutOfRange, pos.StringNumber, pos.FretPosition)
		}
	}
	return nil
}

// validateNotes проверяет, что все присутствующие имена нот являются питч-классами
func (c SubmitAnswerCommand) validateNotes() error {
	for field, value := range map[string]*string{
		"target_note":   c.TargetNote,
		"selected_note": c.SelectedNote,
		"root_note":     c.RootNote,
	} {
		if value != nil && !entity.IsValidNote(*value) {
			return fmt.Errorf("%w: %s %q is not a pitch class", ErrInvalidEnum, field, *value)
		}
	}
	return nil
}

// IntFromNumber преобразует json.Number в неотрицательное целое.
// Дробные значения отклоняются с ErrInvalidNumericFormat: клиенты присылают
// время в секундах/миллисекундах как целые числа.
func IntFromNumber(field string, n json.Number) (int64, error) {
	value, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%s", ErrInvalidNumericFormat, field, n.String())
	}
	return value, nil
}
