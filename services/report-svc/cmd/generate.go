package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/domain"
	"metricsreport/pkg/logger"
	"metricsreport/services/report-svc/internal/hierarchy"
	"metricsreport/services/report-svc/internal/service"
)

// cutoffFlagLayout формат флага --cutoff
const cutoffFlagLayout = "2006-01-02"

type generateFlags struct {
	master         string
	formatMetrics  string
	variantMetrics string
	productMetrics string
	cutoff         string
	formats        []string
	variants       []string
	products       []string
	selection      string
	display        string
	export         string
	out            string
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the report for a selection",
		Long: `generate loads the four workbooks, builds the rows for the selection,
prints the display table to stdout and writes the export file.`,
		Example: `  report generate --master master.xlsx --format-metrics format.xlsx \
    --variant-metrics variant.xlsx --product-metrics product.xlsx \
    --formats Snack --variants Chips --export xlsx --out report.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, &f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.master, "master", "", "Master hierarchy workbook (xlsx)")
	flags.StringVar(&f.formatMetrics, "format-metrics", "", "Format level metrics workbook (xlsx)")
	flags.StringVar(&f.variantMetrics, "variant-metrics", "", "Variant level metrics workbook (xlsx)")
	flags.StringVar(&f.productMetrics, "product-metrics", "", "Product level metrics workbook (xlsx)")
	flags.StringVar(&f.cutoff, "cutoff", "", "Cut-off date YYYY-MM-DD (default: today)")
	flags.StringSliceVar(&f.formats, "formats", nil, "Selected formats, in order")
	flags.StringSliceVar(&f.variants, "variants", nil, "Selected variants, in order")
	flags.StringSliceVar(&f.products, "products", nil, "Selected products, in order")
	flags.StringVar(&f.selection, "selection", "", "Selection file (yaml); flags override its levels")
	flags.StringVar(&f.display, "display", "", "Display format: text, markdown, csv, json, html, none")
	flags.StringVar(&f.export, "export", "", "Export format: xlsx, pdf, none")
	flags.StringVarP(&f.out, "out", "o", "", "Export file path (default: configured filename)")

	return cmd
}

func runGenerate(cmd *cobra.Command, f *generateFlags) error {
	ctx := cmd.Context()

	overrides := map[string]any{}
	if f.display != "" {
		overrides["report.display_format"] = f.display
	}
	if f.export != "" {
		overrides["report.export_format"] = f.export
	}

	a, err := setup(ctx, overrides)
	if err != nil {
		return err
	}
	defer a.close()

	req, err := buildRequest(cmd, f)
	if err != nil {
		return err
	}

	res, err := a.svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	if res.Display != nil {
		if _, err := cmd.OutOrStdout().Write(res.Display.Content); err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "failed to write display table")
		}
	}

	if res.Export != nil {
		path := f.out
		if path == "" {
			path = res.Export.Filename
		}
		if err := writeFile(path, res.Export.Content); err != nil {
			return err
		}
		logger.Info("Report written",
			"path", path,
			"format", string(res.Export.Format),
			"size", res.Export.SizeBytes,
			"run_id", res.RunID,
		)
	}

	return nil
}

// buildRequest читает книги и собирает выбор: файл, затем флаги поверх
func buildRequest(cmd *cobra.Command, f *generateFlags) (*service.Request, error) {
	req := &service.Request{}

	inputs := []struct {
		path string
		dst  *[]byte
	}{
		{f.master, &req.Master},
		{f.formatMetrics, &req.FormatMetrics},
		{f.variantMetrics, &req.VariantMetrics},
		{f.productMetrics, &req.ProductMetrics},
	}
	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		data, err := os.ReadFile(in.path)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeLoadFailed, "cannot read workbook").
				WithField(in.path)
		}
		*in.dst = data
	}

	if f.cutoff != "" {
		cutoff, err := time.Parse(cutoffFlagLayout, f.cutoff)
		if err != nil {
			return nil, apperror.NewWithField(apperror.CodeInvalidArgument,
				fmt.Sprintf("cutoff must be YYYY-MM-DD, got %q", f.cutoff), "cutoff")
		}
		req.Cutoff = cutoff
	}

	sel, err := selectionFrom(cmd, f.selection, f.formats, f.variants, f.products)
	if err != nil {
		return nil, err
	}
	req.Selection = sel

	return req, nil
}

// selectionFrom читает файл выбора и накладывает уровни, заданные флагами
func selectionFrom(cmd *cobra.Command, path string, formats, variants, products []string) (domain.Selection, error) {
	var sel domain.Selection
	if path != "" {
		var err error
		if sel, err = hierarchy.LoadSelectionFile(path); err != nil {
			return domain.Selection{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("formats") {
		sel.Formats = formats
	}
	if flags.Changed("variants") {
		sel.Variants = variants
	}
	if flags.Changed("products") {
		sel.Products = products
	}
	return sel, nil
}

func writeFile(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperror.Wrap(err, apperror.CodeInternal, "cannot create output directory").WithField(dir)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "cannot write export file").WithField(path)
	}
	return nil
}
