package domain

import "fmt"

// Level уровень иерархии
type Level int

const (
	LevelFormat Level = iota
	LevelVariant
	LevelProduct
)

// Levels все уровни сверху вниз
var Levels = [3]Level{LevelFormat, LevelVariant, LevelProduct}

func (l Level) String() string {
	switch l {
	case LevelFormat:
		return "format"
	case LevelVariant:
		return "variant"
	case LevelProduct:
		return "product"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Child возвращает дочерний уровень и false для Product
func (l Level) Child() (Level, bool) {
	if l >= LevelProduct {
		return l, false
	}
	return l + 1, true
}

// MasterEntity строка мастер-справочника. Пустая строка - отсутствующая ячейка.
type MasterEntity struct {
	Format  string
	Variant string
	Product string
}

// Selection выбор пользователя, порядок значим.
// Может содержать устаревшие имена, движок их терпит.
type Selection struct {
	Formats  []string `yaml:"formats" json:"formats"`
	Variants []string `yaml:"variants" json:"variants"`
	Products []string `yaml:"products" json:"products"`
}

// At возвращает выбор для уровня
func (s Selection) At(l Level) []string {
	switch l {
	case LevelFormat:
		return s.Formats
	case LevelVariant:
		return s.Variants
	default:
		return s.Products
	}
}

// Set заменяет выбор уровня
func (s *Selection) Set(l Level, names []string) {
	switch l {
	case LevelFormat:
		s.Formats = names
	case LevelVariant:
		s.Variants = names
	default:
		s.Products = names
	}
}

// IsEmpty true, если ничего не выбрано
func (s Selection) IsEmpty() bool {
	return len(s.Formats) == 0 && len(s.Variants) == 0 && len(s.Products) == 0
}

// ReportRow строка отчёта. Depth: 0 - итог и форматы, 1 - варианты, 2 - продукты.
type ReportRow struct {
	Label   string       `json:"label"`
	Depth   int          `json:"depth"`
	Metrics MetricBundle `json:"metrics"`
}
