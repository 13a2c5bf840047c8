package websocket

// Типы событий, отправляемых клиентам во время практики
const (
	// ANSWER_RECORDED сообщает о принятом ответе в открытой сессии
	ANSWER_RECORDED = "ANSWER_RECORDED"

	// SESSION_COMPLETED сообщает об успешном завершении сессии
	SESSION_COMPLETED = "SESSION_COMPLETED"

	// SESSION_ABANDONED сообщает о прекращении сессии (в том числе по истечению лимита)
	SESSION_ABANDONED = "SESSION_ABANDONED"

	// STREAK_UPDATED сообщает об изменении серии практики
	STREAK_UPDATED = "STREAK_UPDATED"
)

// Event представляет одно событие, отправляемое клиенту
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
