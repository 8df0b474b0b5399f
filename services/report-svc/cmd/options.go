package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/domain"
	"metricsreport/pkg/logger"
	"metricsreport/services/report-svc/internal/hierarchy"
	"metricsreport/services/report-svc/internal/service"
)

type optionsFlags struct {
	master    string
	selection string
	formats   []string
	variants  []string
	products  []string
	save      bool
}

func newOptionsCmd() *cobra.Command {
	var f optionsFlags

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the cascade of selectable formats, variants and products",
		Long: `options reads the master workbook and prints what can be selected at each
level for the current selection. Names that are no longer selectable are
dropped from the reconciled selection; --save writes it back to the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptions(cmd, &f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.master, "master", "", "Master hierarchy workbook (xlsx)")
	flags.StringVar(&f.selection, "selection", "", "Selection file (yaml)")
	flags.StringSliceVar(&f.formats, "formats", nil, "Selected formats, in order")
	flags.StringSliceVar(&f.variants, "variants", nil, "Selected variants, in order")
	flags.StringSliceVar(&f.products, "products", nil, "Selected products, in order")
	flags.BoolVar(&f.save, "save", false, "Write the reconciled selection back to --selection")

	return cmd
}

func runOptions(cmd *cobra.Command, f *optionsFlags) error {
	ctx := cmd.Context()

	if f.save && f.selection == "" {
		return apperror.NewWithField(apperror.CodeInvalidArgument, "--save needs --selection", "selection")
	}

	a, err := setup(ctx, map[string]any{})
	if err != nil {
		return err
	}
	defer a.close()

	var master []byte
	if f.master != "" {
		if master, err = os.ReadFile(f.master); err != nil {
			return apperror.Wrap(err, apperror.CodeLoadFailed, "cannot read workbook").WithField(f.master)
		}
	}

	sel, err := selectionFrom(cmd, f.selection, f.formats, f.variants, f.products)
	if err != nil {
		return err
	}

	res, err := a.svc.Options(ctx, master, sel)
	if err != nil {
		return err
	}

	if err := printOptions(cmd.OutOrStdout(), res, a.cfg.Report.Color); err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to print options")
	}

	if f.save {
		if err := hierarchy.SaveSelectionFile(f.selection, res.Selection); err != nil {
			return err
		}
		logger.Info("Selection saved", "path", f.selection)
	}

	return nil
}

// printOptions печатает пулы по уровням, выбранные имена помечены "*"
func printOptions(w io.Writer, res *service.OptionsResult, color bool) error {
	heading := lipgloss.NewStyle()
	if color {
		heading = heading.Bold(true).Foreground(lipgloss.Color("69"))
	}

	var b strings.Builder
	for _, level := range domain.Levels {
		pool := res.Pools.At(level)
		selected := make(map[string]bool)
		for _, name := range res.Selection.At(level) {
			selected[name] = true
		}

		title := strings.ToUpper(level.String()[:1]) + level.String()[1:] + "s"
		fmt.Fprintf(&b, "%s (%d)\n", heading.Render(title), len(pool))
		for _, name := range pool {
			mark := " "
			if selected[name] {
				mark = "*"
			}
			fmt.Fprintf(&b, "  %s %s\n", mark, name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
