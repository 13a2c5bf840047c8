// Package analytics содержит чистые функции агрегации поверх журнала
// ответов и истории сессий. Все результаты являются производными:
// повторный расчет на том же срезе журнала всегда дает идентичный ответ.
package analytics

// NoteMastery содержит агрегированную статистику по одному питч-классу
type NoteMastery struct {
	Note          string `json:"note"`
	TotalAttempts int    `json:"total_attempts"`
	CorrectCount  int    `json:"correct_count"`
	ErrorCount    int    `json:"error_count"`
	Accuracy      int    `json:"accuracy"` // Целый процент, округление half-up; 0 при нуле попыток
}

// HeatmapCell содержит счетчик ошибок и нормализованную интенсивность
// для одной позиции грифа
type HeatmapCell struct {
	StringNumber int     `json:"string_number"`
	FretPosition int     `json:"fret_position"`
	ErrorCount   int     `json:"error_count"`
	Intensity    float64 `json:"intensity"` // error_count / max_error_count, 0 при max=0
}

// Heatmap содержит полную сетку ошибок по грифу
type Heatmap struct {
	Cells         []HeatmapCell `json:"cells"`
	MaxErrorCount int           `json:"max_error_count"`
	MaxFret       int           `json:"max_fret"`
}

// BucketStat содержит статистику одной корзины разбивки (по типу или сложности)
type BucketStat struct {
	Count        int `json:"count"`
	AverageScore int `json:"average_score"`
}

// StatsOverview содержит сводную статистику по завершенным сессиям
type StatsOverview struct {
	TotalCompleted   int                   `json:"total_completed"`
	TotalTimeSeconds int                   `json:"total_time_seconds"`
	ByQuizType       map[string]BucketStat `json:"by_quiz_type"`
	ByDifficulty     map[string]BucketStat `json:"by_difficulty"`
}

// Streak содержит состояние серии практики в последовательных календарных днях
type Streak struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// roundPercent вычисляет целый процент correct/total с округлением half-up
func roundPercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
