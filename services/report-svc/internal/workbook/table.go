package workbook

import "strings"

// Table лист книги: строка заголовка и строки данных под ней.
// Rows[i] соответствует строке листа HeaderRow+1+i (1-based).
type Table struct {
	Sheet     string      `json:"sheet"`
	HeaderRow int         `json:"header_row"`
	Header    []string    `json:"header"`
	Rows      [][]RawCell `json:"rows"`
}

// Column ищет колонку по имени заголовка. Сначала точное совпадение,
// затем без учёта пробелов по краям. Возвращает первую подходящую.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	trimmed := strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.TrimSpace(h) == trimmed {
			return i, true
		}
	}
	return -1, false
}

// Cell возвращает ячейку, Missing за пределами строки
func (t *Table) Cell(row, col int) RawCell {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return MissingCell()
	}
	return t.Rows[row][col]
}

// SheetRow номер строки листа (1-based) для строки данных row
func (t *Table) SheetRow(row int) int {
	return t.HeaderRow + 1 + row
}
