package workbook

import "strconv"

// CellKind тег значения ячейки
type CellKind uint8

const (
	// Missing пустая ячейка, ошибка Excel или маркер отсутствия ("#N/A", "NULL", ...)
	Missing CellKind = iota
	// Text строковое значение
	Text
	// Number числовое значение
	Number
)

func (k CellKind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	default:
		return "missing"
	}
}

// RawCell значение ячейки до разбора: Missing | Text | Number.
// Внутрь смотрит только парсер значений.
type RawCell struct {
	Kind   CellKind `json:"k"`
	Text   string   `json:"s,omitempty"`
	Number float64  `json:"n,omitempty"`
}

// MissingCell пустая ячейка
func MissingCell() RawCell { return RawCell{} }

// TextCell строковая ячейка
func TextCell(s string) RawCell { return RawCell{Kind: Text, Text: s} }

// NumberCell числовая ячейка
func NumberCell(f float64) RawCell { return RawCell{Kind: Number, Number: f} }

// IsMissing true для пустой ячейки
func (c RawCell) IsMissing() bool { return c.Kind == Missing }

// String исходное представление для сообщений об ошибках
func (c RawCell) String() string {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// missingMarkers строки, которые табличные инструменты считают отсутствием значения
var missingMarkers = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"-1.#IND": {}, "-1.#QNAN": {}, "-NaN": {}, "-nan": {},
	"1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsMissingMarker проверяет строку по списку маркеров отсутствия
func IsMissingMarker(s string) bool {
	_, ok := missingMarkers[s]
	return ok
}

// textOrMissing строит ячейку из строки с учётом маркеров
func textOrMissing(s string) RawCell {
	if IsMissingMarker(s) {
		return MissingCell()
	}
	return TextCell(s)
}
