package domain

import (
	"math"
	"strconv"
)

// Kind определяет, как метрика парсится и отображается
type Kind int

const (
	// KindPercent значение в процентных пунктах, 1 знак после запятой
	KindPercent Kind = iota
	// KindValue целое абсолютное значение
	KindValue
)

// Metric одна из восьми колонок отчёта, порядок фиксирован
type Metric int

const (
	ContributionYTD Metric = iota
	ValueMTD
	ValueYTD
	GrowthMTD
	GrowthL3M
	GrowthYTD
	AchievementMTD
	AchievementYTD
)

// NumMetrics число метрик в строке отчёта
const NumMetrics = 8

// AllMetrics метрики в порядке колонок
var AllMetrics = [NumMetrics]Metric{
	ContributionYTD, ValueMTD, ValueYTD,
	GrowthMTD, GrowthL3M, GrowthYTD,
	AchievementMTD, AchievementYTD,
}

var metricNames = [NumMetrics]string{
	"contributionYTD", "valueMTD", "valueYTD",
	"growthMTD", "growthL3M", "growthYTD",
	"achievementMTD", "achievementYTD",
}

// String возвращает идентификатор метрики
func (m Metric) String() string {
	if m < 0 || int(m) >= NumMetrics {
		return "Metric(" + strconv.Itoa(int(m)) + ")"
	}
	return metricNames[m]
}

// Kind возвращает тип метрики
func (m Metric) Kind() Kind {
	if m == ValueMTD || m == ValueYTD {
		return KindValue
	}
	return KindPercent
}

// Value число или null. Нулевое значение - null.
type Value struct {
	Float float64
	Valid bool
}

// Null пустое значение
var Null = Value{}

// Some оборачивает число
func Some(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Equal сравнивает значения, null равен только null
func (v Value) Equal(o Value) bool {
	if v.Valid != o.Valid {
		return false
	}
	return !v.Valid || math.Abs(v.Float-o.Float) < Epsilon
}

// MarshalJSON пишет число или null
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Float, 'f', -1, 64), nil
}

// UnmarshalJSON читает число или null
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = Some(f)
	return nil
}

// MetricBundle восемь значений строки, индекс - Metric.
// Нулевой bundle состоит из null.
type MetricBundle [NumMetrics]Value

// Get возвращает значение метрики
func (b MetricBundle) Get(m Metric) Value {
	return b[m]
}

// IsEmpty true, если все значения null
func (b MetricBundle) IsEmpty() bool {
	for _, v := range b {
		if v.Valid {
			return false
		}
	}
	return true
}
