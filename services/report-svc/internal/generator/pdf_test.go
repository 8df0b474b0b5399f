// services/report-svc/internal/generator/pdf_test.go

package generator

import (
	"context"
	"testing"

	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"

	"metricsreport/pkg/domain"
)

func TestPDFGenerator_Format(t *testing.T) {
	g := NewPDFGenerator(DefaultOptions())
	if g.Format() != FormatPDF {
		t.Errorf("Format() = %v, want PDF", g.Format())
	}
}

func TestPDFGenerator_Generate(t *testing.T) {
	g := NewPDFGenerator(DefaultOptions())

	result, err := g.Generate(context.Background(), &ReportData{Rows: sampleRows(), CutoffLabel: "05 March 2024"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// PDF signature: %PDF-
	if len(result) < 5 {
		t.Fatal("PDF file too small")
	}
	if string(result[:5]) != "%PDF-" {
		t.Error("Result doesn't look like a valid PDF file")
	}
}

func TestPDFGenerator_ManyRows(t *testing.T) {
	rows := make([]domain.ReportRow, 0, 200)
	for i := 0; i < 200; i++ {
		rows = append(rows, domain.ReportRow{Label: "Product", Depth: i % 3})
	}

	opts := DefaultOptions()
	opts.PDF.PageNumbers = false
	opts.PDF.FontSize = 0

	result, err := NewPDFGenerator(opts).Generate(context.Background(), &ReportData{Rows: rows})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(result[:5]) != "%PDF-" {
		t.Error("Result doesn't look like a valid PDF file")
	}
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		in   string
		want pagesize.Type
	}{
		{"A4", pagesize.A4},
		{"letter", pagesize.Letter},
		{" a3 ", pagesize.A3},
		{"unknown", pagesize.A4},
	}

	for _, tt := range tests {
		if got := pageSize(tt.in); got != tt.want {
			t.Errorf("pageSize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
