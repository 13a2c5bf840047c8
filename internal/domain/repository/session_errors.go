package repository

import "errors"

var (
	// ErrDuplicateQuestion означает, что в сессии уже есть ответ с таким question_number.
	ErrDuplicateQuestion = errors.New("answer for this question already recorded")
	// ErrSessionClosed означает попытку записи в сессию, находящуюся в терминальном статусе.
	ErrSessionClosed = errors.New("session is not in progress")
	// ErrInvalidStatusTransition означает запрос недопустимого перехода статуса сессии.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
