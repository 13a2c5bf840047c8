package entity

import (
	"time"
)

// Константы типов викторины
const (
	QuizTypeFindNote          = "find_note"
	QuizTypeNameNote          = "name_note"
	QuizTypeMarkChord         = "mark_chord"
	QuizTypeRecognizeInterval = "recognize_interval"
)

// Константы уровней сложности
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Константы статусов сессии
const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusAbandoned  = "abandoned"
)

// QuestionsPerSession определяет количество вопросов в одной сессии
const QuestionsPerSession = 10

// IsValidQuizType проверяет, является ли значение допустимым типом викторины
func IsValidQuizType(quizType string) bool {
	switch quizType {
	case QuizTypeFindNote, QuizTypeNameNote, QuizTypeMarkChord, QuizTypeRecognizeInterval:
		return true
	}
	return false
}

// IsValidDifficulty проверяет, является ли значение допустимым уровнем сложности
func IsValidDifficulty(difficulty string) bool {
	switch difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuizSession представляет одну попытку прохождения викторины на грифе
type QuizSession struct {
	ID               string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	QuizType         string     `gorm:"size:30;not null;index" json:"quiz_type"`
	Difficulty       string     `gorm:"size:10;not null;index" json:"difficulty"`
	TimeLimitSeconds *int       `json:"time_limit_seconds,omitempty"`
	Status           string     `gorm:"size:20;not null;default:'in_progress';index" json:"status"`
	StartedAt        time.Time  `gorm:"not null;index" json:"started_at"`
	CompletedAt      *time.Time `gorm:"index" json:"completed_at,omitempty"`
	TimeTakenSeconds *int       `json:"time_taken_seconds,omitempty"`
	Score            *int       `json:"score,omitempty"`
	Answers          []QuizAnswer `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizSession) TableName() string {
	return "quiz_sessions"
}

// IsInProgress проверяет, открыта ли сессия для ответов
func (s *QuizSession) IsInProgress() bool {
	return s.Status == SessionStatusInProgress
}

// IsCompleted проверяет, завершена ли сессия успешно
func (s *QuizSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// IsTerminal проверяет, находится ли сессия в терминальном статусе.
// Из терминального статуса переходы запрещены.
func (s *QuizSession) IsTerminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusAbandoned
}

// IsExpired проверяет, истек ли лимит времени сессии (с учетом grace-периода).
// Сессии без лимита времени не истекают.
func (s *QuizSession) IsExpired(now time.Time, grace time.Duration) bool {
	if s.TimeLimitSeconds == nil || !s.IsInProgress() {
		return false
	}
	deadline := s.StartedAt.Add(time.Duration(*s.TimeLimitSeconds)*time.Second + grace)
	return now.After(deadline)
}
