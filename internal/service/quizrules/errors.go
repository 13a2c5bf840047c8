package quizrules

import (
	"fmt"

	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
)

// Ошибки валидации команд. Все оборачивают apperrors.ErrValidation,
// поэтому проверяются и по конкретному виду, и по общей категории через errors.Is.
var (
	// ErrInvalidEnum означает недопустимое значение перечисления (quiz_type, difficulty, status).
	ErrInvalidEnum = fmt.Errorf("%w: invalid enum value", apperrors.ErrValidation)

	// ErrMissingConditionalField означает отсутствие поля, обязательного при данном
	// значении дискриминанта (например, time_limit_seconds при difficulty=hard).
	ErrMissingConditionalField = fmt.Errorf("%w: missing conditionally required field", apperrors.ErrValidation)

	// ErrInvalidNumericFormat означает дробное значение там, где требуется целое.
	ErrInvalidNumericFormat = fmt.Errorf("%w: integer value required", apperrors.ErrValidation)

	// ErrOutOfRange означает числовое значение вне допустимых границ.
	ErrOutOfRange = fmt.Errorf("%w: value out of range", apperrors.ErrValidation)
)
