package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Запуск
	AttrRunID  = "report.run_id"
	AttrCutoff = "report.cutoff"

	// Выбор
	AttrSelectedFormats  = "selection.formats"
	AttrSelectedVariants = "selection.variants"
	AttrSelectedProducts = "selection.products"

	// Книги
	AttrWorkbook      = "workbook.role"
	AttrWorkbookBytes = "workbook.bytes"

	// Результат
	AttrRows         = "report.rows"
	AttrExportFormat = "export.format"
	AttrExportBytes  = "export.bytes"
)

// SelectionAttributes возвращает атрибуты выбора пользователя
func SelectionAttributes(formats, variants, products int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrSelectedFormats, formats),
		attribute.Int(AttrSelectedVariants, variants),
		attribute.Int(AttrSelectedProducts, products),
	}
}

// WorkbookAttributes возвращает атрибуты загружаемой книги
func WorkbookAttributes(role string, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrWorkbook, role),
		attribute.Int(AttrWorkbookBytes, size),
	}
}

// ExportAttributes возвращает атрибуты выгрузки
func ExportAttributes(format string, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrExportFormat, format),
		attribute.Int(AttrExportBytes, size),
	}
}
