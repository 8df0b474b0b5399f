package generator

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricsreport/pkg/domain"
)

func generate(t *testing.T, g Generator) string {
	t.Helper()
	out, err := g.Generate(context.Background(), &ReportData{Rows: sampleRows(), CutoffLabel: "05 March 2024"})
	require.NoError(t, err)
	return string(out)
}

func TestTextGenerator(t *testing.T) {
	out := generate(t, NewTextGenerator(Options{}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)

	assert.True(t, strings.HasPrefix(lines[0], "Cut-off: 05 March 2024"))
	assert.Contains(t, lines[1], "%Gr L3M")
	assert.True(t, strings.HasPrefix(lines[2], "---"))
	assert.True(t, strings.HasPrefix(lines[3], "GRAND TOTAL"))
	assert.Contains(t, lines[3], "1234567")
	assert.Contains(t, lines[3], "-3.4%")
	assert.True(t, strings.HasPrefix(lines[5], "        ChipsA"))
	assert.True(t, strings.HasPrefix(lines[6], "            ProdX"))
	// у продукта только подпись
	assert.Equal(t, "            ProdX", lines[6])

	// колонки выровнены
	assert.Equal(t, len(lines[2]), len(lines[3]))
}

func TestTextGenerator_GroupDigits(t *testing.T) {
	out := generate(t, NewTextGenerator(Options{GroupDigits: true}))
	assert.Contains(t, out, "1,234,567")
	assert.Contains(t, out, "60,000")
	assert.NotContains(t, out, "1234567")
}

func TestTextGenerator_Color(t *testing.T) {
	out := generate(t, NewTextGenerator(Options{Color: true}))
	assert.Contains(t, out, "ProdX")
	assert.Contains(t, out, "45.0%")
}

func TestTextGenerator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTextGenerator(Options{}).Generate(ctx, &ReportData{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMarkdownGenerator(t *testing.T) {
	out := generate(t, NewMarkdownGenerator(Options{Color: true}))

	assert.Contains(t, out, "## Cut-off: 05 March 2024\n")
	assert.Contains(t, out, "| Produk | Cont YTD | Value MTD | Value YTD | Growth MTD | Growth %Gr L3M |")
	assert.Contains(t, out, "| --- | ---: |")
	assert.Contains(t, out, "| **GRAND TOTAL** | 100.0% |")
	assert.Contains(t, out, "| "+strings.Repeat("&nbsp;", 8)+"ChipsA |")
	assert.Contains(t, out, "| _"+strings.Repeat("&nbsp;", 12)+"ProdX_ |")
}

func TestCSVGenerator(t *testing.T) {
	out := generate(t, NewCSVGenerator())

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, "Cut-off: 05 March 2024", records[0][0])
	assert.Equal(t, "%Gr L3M", records[1][5])
	assert.Equal(t, []string{"Snack", "45.0%", "60000", "", "-1.2%", "", "", "", ""}, records[3])
	assert.Equal(t, "            ProdX", records[5][0])
}

func TestJSONGenerator(t *testing.T) {
	out := generate(t, NewJSONGenerator())

	var report JSONReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "05 March 2024", report.Cutoff)
	require.Len(t, report.Columns, domain.NumMetrics)
	assert.Equal(t, "growthL3M", report.Columns[4].Key)
	assert.Equal(t, "value", report.Columns[1].Kind)

	require.Len(t, report.Rows, 4)
	assert.Equal(t, 45.0, report.Rows[1].Metrics["contributionYTD"].Float)
	assert.False(t, report.Rows[3].Metrics["valueMTD"].Valid)
	assert.Equal(t, JSONRowCounts{Formats: 1, Variants: 1, Products: 1}, report.Summary)

	assert.Contains(t, out, `"valueMTD": null`)
}

func TestHTMLGenerator(t *testing.T) {
	out := generate(t, NewHTMLGenerator(Options{Color: true}))

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Cut-off: 05 March 2024</title>")
	assert.Contains(t, out, `<th colspan="2">Value</th>`)
	assert.Contains(t, out, `<th colspan="3">Growth</th>`)
	assert.Contains(t, out, `<tr class="depth-2">`)
	assert.Contains(t, out, `<td class="num neg">-3.4%</td>`)
	assert.Contains(t, out, `<td class="num pos">0.0%</td>`)
	assert.Contains(t, out, `<td class="label">ProdX</td>`)
}

func TestHTMLGenerator_Escapes(t *testing.T) {
	var buf bytes.Buffer
	out, err := NewHTMLGenerator(Options{}).Generate(context.Background(), &ReportData{
		Rows: []domain.ReportRow{{Label: "<b>Snack</b>"}},
	})
	require.NoError(t, err)
	buf.Write(out)

	assert.NotContains(t, buf.String(), "<b>Snack</b>")
	assert.Contains(t, buf.String(), "&lt;b&gt;Snack&lt;/b&gt;")
	assert.NotContains(t, buf.String(), "td.pos")
}
