package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем.
// Используется для кеширования производной аналитики: Get/Increment ведут
// счетчик версии пользователя, SetJSON/GetJSON хранят сами срезы.
type CacheRepository interface {
	Get(key string) (string, error)
	Increment(key string) (int64, error)
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
}
