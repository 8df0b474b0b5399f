package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"metricsreport/pkg/cache"
	"metricsreport/pkg/domain"
	"metricsreport/pkg/metrics"
	"metricsreport/services/report-svc/internal/fixture"
	"metricsreport/services/report-svc/internal/generator"
	"metricsreport/services/report-svc/internal/workbook"
)

// benchInputs строит иерархию formats x variants x products со случайными метриками
func benchInputs(b *testing.B, formats, variants, products int) (Inputs, domain.Selection) {
	b.Helper()
	r := rand.New(rand.NewSource(42))

	row := func(name string) fixture.MetricRow {
		return fixture.Row(name,
			r.Float64(), float64(r.Intn(1_000_000)), float64(r.Intn(10_000_000)),
			r.Float64()*2-1, r.Float64()*2-1, r.Float64()*2-1,
			r.Float64()*1.5, r.Float64()*1.5,
		)
	}

	var (
		master              []domain.MasterEntity
		fRows, vRows, pRows []fixture.MetricRow
		sel                 domain.Selection
	)
	fRows = append(fRows, row(domain.GrandTotal))

	for f := 0; f < formats; f++ {
		fname := fmt.Sprintf("Format %d", f)
		fRows = append(fRows, row(fname))
		sel.Formats = append(sel.Formats, fname)
		for v := 0; v < variants; v++ {
			vname := fmt.Sprintf("Variant %d.%d", f, v)
			vRows = append(vRows, row(vname))
			sel.Variants = append(sel.Variants, vname)
			for p := 0; p < products; p++ {
				pname := fmt.Sprintf("Product %d.%d.%d", f, v, p)
				pRows = append(pRows, row(pname))
				sel.Products = append(sel.Products, pname)
				master = append(master, domain.MasterEntity{Format: fname, Variant: vname, Product: pname})
			}
		}
	}

	return Inputs{
		Master:         fixture.Master(b, master...),
		FormatMetrics:  fixture.Metrics(b, fRows...),
		VariantMetrics: fixture.Metrics(b, vRows...),
		ProductMetrics: fixture.Metrics(b, pRows...),
	}, sel
}

func benchmarkGenerate(b *testing.B, opener workbook.Opener, formats, variants, products int, export generator.Format) {
	in, sel := benchInputs(b, formats, variants, products)
	svc := NewReportService(ServiceConfig{Version: "benchmark"}, opener, metrics.InitMetrics("bench", ""))
	req := &Request{
		Inputs:        in,
		Selection:     sel,
		DisplayFormat: generator.FormatNone,
		ExportFormat:  export,
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Generate(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReportService_Generate_Small(b *testing.B) {
	benchmarkGenerate(b, workbook.NewExcelOpener(), 2, 3, 5, generator.FormatNone)
}

func BenchmarkReportService_Generate_Large(b *testing.B) {
	benchmarkGenerate(b, workbook.NewExcelOpener(), 5, 10, 20, generator.FormatNone)
}

func BenchmarkReportService_Generate_Large_Cached(b *testing.B) {
	mem := cache.NewMemoryCache(nil)
	defer mem.Close()
	benchmarkGenerate(b, workbook.NewCachedOpener(workbook.NewExcelOpener(), mem), 5, 10, 20, generator.FormatNone)
}

func BenchmarkReportService_Generate_XLSX(b *testing.B) {
	benchmarkGenerate(b, workbook.NewExcelOpener(), 5, 10, 20, generator.FormatXLSX)
}

func BenchmarkReportService_Generate_PDF(b *testing.B) {
	benchmarkGenerate(b, workbook.NewExcelOpener(), 5, 10, 20, generator.FormatPDF)
}
