package entity

import (
	"time"
)

// QuizAnswer представляет один ответ в рамках сессии викторины.
// Записи append-only: после создания не изменяются и не удаляются.
// Поля полезной нагрузки зависят от типа викторины сессии; поля других
// типов остаются NULL.
type QuizAnswer struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	SessionID      string `gorm:"type:uuid;not null;index;uniqueIndex:idx_session_question" json:"session_id"`
	QuestionNumber int    `gorm:"not null;uniqueIndex:idx_session_question" json:"question_number"`
	IsCorrect      bool   `gorm:"not null" json:"is_correct"`
	TimeTakenMs    *int64 `json:"time_taken_ms,omitempty"`

	// find_note / name_note
	TargetNote   *string `gorm:"size:3" json:"target_note,omitempty"`
	SelectedNote *string `gorm:"size:3" json:"selected_note,omitempty"`

	// Позиция на грифе: выбранная (find_note), показанная (name_note)
	// или опорная (recognize_interval)
	StringNumber *int `json:"string_number,omitempty"`
	FretPosition *int `json:"fret_position,omitempty"`

	// mark_chord
	RootNote          *string      `gorm:"size:3" json:"root_note,omitempty"`
	ChordType         *string      `gorm:"size:20" json:"chord_type,omitempty"`
	SelectedPositions PositionList `gorm:"type:jsonb" json:"selected_positions,omitempty"`

	// recognize_interval
	TargetInterval   *string `gorm:"size:30" json:"target_interval,omitempty"`
	SelectedInterval *string `gorm:"size:30" json:"selected_interval,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAnswer) TableName() string {
	return "quiz_answers"
}

// MasteryNote возвращает питч-класс, к которому относится вопрос:
// target_note для нотных вопросов, root_note для аккордовых.
// Возвращает пустую строку, если ответ не привязан к ноте.
func (a *QuizAnswer) MasteryNote() string {
	if a.TargetNote != nil {
		return NormalizeNote(*a.TargetNote)
	}
	if a.RootNote != nil {
		return NormalizeNote(*a.RootNote)
	}
	return ""
}

// HasPosition проверяет, содержит ли ответ позиционные данные верхнего уровня
func (a *QuizAnswer) HasPosition() bool {
	return a.StringNumber != nil && a.FretPosition != nil
}
