package analytics

import (
	"sort"
	"time"
)

// Политика серии: дни считаются по календарю UTC. Серия "текущая", если
// ее последний день - сегодня или вчера (сессия, завершенная вчера, еще
// не обнуляет серию); более старые разрывы дают 0.

// ComputeStreak вычисляет текущую и максимальную серию практики по
// временам завершения сессий. Функция чистая: порядок времен и повторные
// завершения в один день на результат не влияют.
func ComputeStreak(completions []time.Time, now time.Time) Streak {
	daySet := make(map[int64]struct{}, len(completions))
	for _, completion := range completions {
		daySet[utcDay(completion)] = struct{}{}
	}
	if len(daySet) == 0 {
		return Streak{}
	}

	days := make([]int64, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i] == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// Текущая серия - это последний run, и только если он заканчивается
	// сегодня или вчера по UTC
	current := 0
	today := utcDay(now)
	lastDay := days[len(days)-1]
	if lastDay == today || lastDay == today-1 {
		current = 1
		for i := len(days) - 1; i > 0; i-- {
			if days[i-1] == days[i]-1 {
				current++
			} else {
				break
			}
		}
	}

	return Streak{CurrentStreak: current, LongestStreak: longest}
}

// utcDay возвращает порядковый номер календарного дня UTC
func utcDay(t time.Time) int64 {
	utc := t.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Unix() / 86400
}
