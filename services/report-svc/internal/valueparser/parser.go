// Package valueparser normalizes raw spreadsheet cells into report values:
// percentages as percentage points with one decimal, absolute values as
// whole numbers.
package valueparser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"metricsreport/pkg/domain"
	"metricsreport/services/report-svc/internal/workbook"
)

// ErrMalformed ячейка не является числом
var ErrMalformed = errors.New("malformed cell")

// MalformedError несёт исходное значение ячейки
type MalformedError struct {
	Raw string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed cell %q", e.Raw)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Parser функция разбора ячейки
type Parser func(workbook.RawCell) (domain.Value, error)

// For возвращает парсер по типу метрики
func For(kind domain.Kind) Parser {
	if kind == domain.KindValue {
		return ParseNumber
	}
	return ParsePercent
}

// ParsePercent разбирает процент.
// Текст уже в процентных пунктах ("12,3%" -> 12.3), число - доля (0.123 -> 12.3).
func ParsePercent(c workbook.RawCell) (domain.Value, error) {
	switch c.Kind {
	case workbook.Text:
		s := strings.TrimSpace(c.Text)
		s = strings.ReplaceAll(s, "%", "")
		s = strings.ReplaceAll(s, ",", ".")
		s = strings.TrimSpace(s)
		if s == "" {
			return domain.Null, nil
		}
		f, err := parseFloat(s, c.Text)
		if err != nil {
			return domain.Null, err
		}
		return domain.Some(Round(f, 1)), nil

	case workbook.Number:
		if err := checkFinite(c.Number, c); err != nil {
			return domain.Null, err
		}
		return domain.Some(Round(c.Number*100, 1)), nil

	default:
		return domain.Null, nil
	}
}

// ParseNumber разбирает абсолютное значение с округлением до целого
func ParseNumber(c workbook.RawCell) (domain.Value, error) {
	switch c.Kind {
	case workbook.Text:
		s := strings.TrimSpace(c.Text)
		if s == "" {
			return domain.Null, nil
		}
		f, err := parseFloat(s, c.Text)
		if err != nil {
			return domain.Null, err
		}
		return domain.Some(Round(f, 0)), nil

	case workbook.Number:
		if err := checkFinite(c.Number, c); err != nil {
			return domain.Null, err
		}
		return domain.Some(Round(c.Number, 0)), nil

	default:
		return domain.Null, nil
	}
}

// Round округляет до places знаков, половина - от нуля
func Round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(f*p) / p
	if r == 0 {
		// без "-0.0" на экране
		return 0
	}
	return r
}

func parseFloat(s, raw string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedError{Raw: raw}
	}
	return f, nil
}

func checkFinite(f float64, c workbook.RawCell) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &MalformedError{Raw: c.String()}
	}
	return nil
}
