package domain

// Epsilon допуск сравнения float64
const Epsilon = 1e-9

// GrandTotal зарезервированное имя итоговой строки уровня Format
const GrandTotal = "GRAND TOTAL"

// Отступы подписей в экранной таблице
const (
	VariantIndent = "        "     // 8 пробелов
	ProductIndent = "            " // 12 пробелов
)

// Колонки мастер-справочника
const (
	ColumnFormat  = "PRODUCT_FORMAT"
	ColumnVariant = "PRODUCT_VARIANT_NAME"
	ColumnProduct = "PRODUCT_NAME"
)

// KeyColumn колонка с именем сущности на листах метрик
const KeyColumn = "Product P"
