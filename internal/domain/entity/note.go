package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// NoteNames содержит 12 питч-классов в хроматическом порядке (диезная нотация)
var NoteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flatAliases отображает бемольную нотацию на каноническую диезную
var flatAliases = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
}

// openStringNotes содержит индексы питч-классов открытых струн в стандартном строе.
// Струны нумеруются от 1 (высокая E) до 6 (низкая E).
var openStringNotes = map[int]int{
	1: 4,  // E
	2: 11, // B
	3: 7,  // G
	4: 2,  // D
	5: 9,  // A
	6: 4,  // E
}

// Границы грифа
const (
	MinStringNumber = 1
	MaxStringNumber = 6
	MinFretPosition = 0
	MaxFretPosition = 24
)

// NormalizeNote приводит имя ноты к канонической диезной нотации.
// Возвращает пустую строку, если имя не является валидным питч-классом.
func NormalizeNote(name string) string {
	if canonical, ok := flatAliases[name]; ok {
		return canonical
	}
	for _, n := range NoteNames {
		if n == name {
			return name
		}
	}
	return ""
}

// IsValidNote проверяет, является ли имя валидным питч-классом (диезы или бемоли)
func IsValidNote(name string) bool {
	return NormalizeNote(name) != ""
}

// NoteAt возвращает питч-класс, звучащий на позиции (струна, лад) в стандартном строе.
// Возвращает пустую строку для позиции вне грифа.
func NoteAt(stringNumber, fretPosition int) string {
	open, ok := openStringNotes[stringNumber]
	if !ok || fretPosition < MinFretPosition || fretPosition > MaxFretPosition {
		return ""
	}
	return NoteNames[(open+fretPosition)%12]
}

// Position представляет точку на грифе: номер струны и номер лада
type Position struct {
	StringNumber int `json:"string_number"`
	FretPosition int `json:"fret_position"`
}

// IsValid проверяет, что позиция находится в пределах грифа
func (p Position) IsValid() bool {
	return p.StringNumber >= MinStringNumber && p.StringNumber <= MaxStringNumber &&
		p.FretPosition >= MinFretPosition && p.FretPosition <= MaxFretPosition
}

// Note возвращает питч-класс, звучащий на этой позиции
func (p Position) Note() string {
	return NoteAt(p.StringNumber, p.FretPosition)
}

// PositionList - пользовательский тип для хранения списка позиций в JSONB
type PositionList []Position

// Scan реализует интерфейс sql.Scanner для PositionList
// Используется GORM для чтения JSONB данных из базы
func (pl *PositionList) Scan(value interface{}) error {
	if value == nil {
		*pl = PositionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*pl = PositionList{}
		return nil
	}

	return json.Unmarshal(bytes, pl)
}

// Value реализует интерфейс driver.Valuer для PositionList
// Используется GORM для записи PositionList в JSONB в базе
func (pl PositionList) Value() (driver.Value, error) {
	if len(pl) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(pl)
}
