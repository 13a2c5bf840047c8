package quizrules

import (
	"fmt"

	"github.com/yourusername/fretboard-api/internal/domain/entity"
	"github.com/yourusername/fretboard-api/internal/domain/repository"
	apperrors "github.com/yourusername/fretboard-api/internal/pkg/errors"
)

// Жизненный цикл сессии: in_progress -> completed | abandoned.
// Оба целевых статуса терминальны, переходов из них нет.

// Transition проверяет допустимость перехода статуса сессии и возвращает
// типизированный отказ вместо молчаливого игнорирования:
//   - repository.ErrInvalidStatusTransition, если целевой статус не терминальный
//     (клиент никогда не может запросить in_progress);
//   - apperrors.ErrConflict, если сессия уже находится в терминальном статусе.
func Transition(current, target string) error {
	switch target {
	case entity.SessionStatusCompleted, entity.SessionStatusAbandoned:
	default:
		return fmt.Errorf("%w: %q is not a valid target status", repository.ErrInvalidStatusTransition, target)
	}

	if current != entity.SessionStatusInProgress {
		return fmt.Errorf("%w: session is already %s", apperrors.ErrConflict, current)
	}

	return nil
}

// CalculateScore вычисляет итоговый счет сессии как процент правильных
// ответов от записанных в журнал, с округлением half-up.
// Пустой журнал дает 0.
func CalculateScore(correct, total int64) int {
	if total <= 0 {
		return 0
	}
	return int((200*correct + total) / (2 * total))
}
