// Package workbook turns xlsx blobs into header-indexed tables of tagged
// cells. It is the only place that knows how spreadsheet cells are typed.
package workbook

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"metricsreport/pkg/apperror"
)

// Opener открывает книгу из байтов файла
type Opener interface {
	Open(ctx context.Context, data []byte) (Book, error)
}

// Book открытая книга. Пустое имя листа означает первый лист,
// skip - число строк над заголовком.
type Book interface {
	Sheet(ctx context.Context, name string, skip int) (*Table, error)
	Close() error
}

// ExcelOpener читает xlsx через excelize
type ExcelOpener struct{}

// NewExcelOpener создаёт opener
func NewExcelOpener() *ExcelOpener {
	return &ExcelOpener{}
}

// Open открывает книгу
func (o *ExcelOpener) Open(ctx context.Context, data []byte) (Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperror.New(apperror.CodeLoadFailed, "workbook is empty")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeLoadFailed, "cannot open workbook: "+err.Error())
	}

	return &excelBook{f: f}, nil
}

type excelBook struct {
	f *excelize.File
}

func (b *excelBook) Close() error {
	return b.f.Close()
}

func (b *excelBook) Sheet(ctx context.Context, name string, skip int) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if skip < 0 {
		return nil, apperror.New(apperror.CodeInvalidArgument, "negative skip").WithDetails("skip", skip)
	}

	sheet, err := b.resolve(name)
	if err != nil {
		return nil, err
	}

	rows, err := b.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeLoadFailed, "cannot read sheet").
			WithDetails("sheet", sheet)
	}

	t := &Table{Sheet: sheet, HeaderRow: skip + 1}
	if skip >= len(rows) {
		return t, nil
	}

	t.Header = append([]string(nil), rows[skip]...)
	t.Rows = make([][]RawCell, 0, len(rows)-skip-1)

	for i := skip + 1; i < len(rows); i++ {
		cells := make([]RawCell, len(rows[i]))
		for j, raw := range rows[i] {
			cells[j] = b.classify(sheet, j+1, i+1, raw)
		}
		t.Rows = append(t.Rows, cells)
	}

	return t, nil
}

func (b *excelBook) resolve(name string) (string, error) {
	sheets := b.f.GetSheetList()
	if name == "" {
		if len(sheets) == 0 {
			return "", apperror.New(apperror.CodeMissingSheet, "workbook has no sheets")
		}
		return sheets[0], nil
	}

	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}

	return "", apperror.New(apperror.CodeMissingSheet, "sheet not found").
		WithDetails("sheet", name).
		WithDetails("available", strings.Join(sheets, ", "))
}

// classify определяет тег ячейки по типу, записанному в книге.
// Строки, формулы со строковым результатом и даты остаются текстом,
// ошибки Excel считаются отсутствием значения.
func (b *excelBook) classify(sheet string, col, row int, raw string) RawCell {
	if raw == "" {
		return MissingCell()
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return textOrMissing(raw)
	}

	typ, err := b.f.GetCellType(sheet, axis)
	if err != nil {
		return textOrMissing(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return textOrMissing(raw)
	case excelize.CellTypeError:
		return MissingCell()
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "TRUE") {
			return NumberCell(1)
		}
		return NumberCell(0)
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return textOrMissing(raw)
		}
		return NumberCell(f)
	}
}

// LoadSheet открывает книгу, читает один лист и закрывает её
func LoadSheet(ctx context.Context, opener Opener, data []byte, name string, skip int) (*Table, error) {
	book, err := opener.Open(ctx, data)
	if err != nil {
		return nil, err
	}
	defer book.Close()

	return book.Sheet(ctx, name, skip)
}
