package service

// EventNotifier доставляет события подключениям владельца сессии.
// Реализуется websocket-хабом; в тестах подменяется моком.
type EventNotifier interface {
	NotifyUser(userID uint, eventType string, data interface{})
}

// NoOpNotifier используется, когда push-уведомления отключены
type NoOpNotifier struct{}

// NotifyUser ничего не делает
func (NoOpNotifier) NotifyUser(userID uint, eventType string, data interface{}) {}
