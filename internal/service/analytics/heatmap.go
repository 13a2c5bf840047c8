package analytics

import (
	"github.com/yourusername/fretboard-api/internal/domain/entity"
)

// ComputeHeatmap строит карту ошибок по позициям грифа на срезе журнала.
// Учитываются только неправильные ответы с позиционными данными: позиция
// верхнего уровня и каждая позиция из selected_positions.
// Возвращается полная сетка струн 1..6 на лады 0..maxFret: ячейки без
// данных присутствуют с нулевыми значениями, ни одна ячейка не пропускается.
// Интенсивность = error_count / max_error_count, 0 когда максимум равен 0.
func ComputeHeatmap(answers []entity.QuizAnswer, maxFret int) Heatmap {
	if maxFret < entity.MinFretPosition || maxFret > entity.MaxFretPosition {
		maxFret = entity.MaxFretPosition
	}

	counts := make(map[entity.Position]int)
	record := func(pos entity.Position) {
		if pos.IsValid() && pos.FretPosition <= maxFret {
			counts[pos]++
		}
	}

	for _, answer := range answers {
		if answer.IsCorrect {
			continue
		}
		if answer.HasPosition() {
			record(entity.Position{StringNumber: *answer.StringNumber, FretPosition: *answer.FretPosition})
		}
		for _, pos := range answer.SelectedPositions {
			record(pos)
		}
	}

	maxErrors := 0
	for _, count := range counts {
		if count > maxErrors {
			maxErrors = count
		}
	}

	fretsPerString := maxFret - entity.MinFretPosition + 1
	cells := make([]HeatmapCell, 0, (entity.MaxStringNumber-entity.MinStringNumber+1)*fretsPerString)
	for stringNumber := entity.MinStringNumber; stringNumber <= entity.MaxStringNumber; stringNumber++ {
		for fret := entity.MinFretPosition; fret <= maxFret; fret++ {
			count := counts[entity.Position{StringNumber: stringNumber, FretPosition: fret}]
			cell := HeatmapCell{
				StringNumber: stringNumber,
				FretPosition: fret,
				ErrorCount:   count,
			}
			if maxErrors > 0 {
				cell.Intensity = float64(count) / float64(maxErrors)
			}
			cells = append(cells, cell)
		}
	}

	return Heatmap{
		Cells:         cells,
		MaxErrorCount: maxErrors,
		MaxFret:       maxFret,
	}
}
