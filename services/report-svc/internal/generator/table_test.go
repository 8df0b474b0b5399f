package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metricsreport/pkg/domain"
)

func TestBuildTable_Header(t *testing.T) {
	tbl := BuildTable(nil, "05 March 2024")

	assert.Equal(t, []string{"Cut-off: 05 March 2024", "", "Value", "Value", "Growth", "Growth", "Growth", "Ach", "Ach"}, tbl.Top)
	assert.Equal(t, []string{"", "Cont YTD", "MTD", "YTD", "MTD", "%Gr L3M", "YTD", "MTD", "YTD"}, tbl.Sub)
	assert.Equal(t, []string{
		"Cut-off: 05 March 2024", "Cont YTD", "Value MTD", "Value YTD",
		"Growth MTD", "Growth %Gr L3M", "Growth YTD", "Ach MTD", "Ach YTD",
	}, tbl.FlatHeader())
	assert.Empty(t, tbl.Rows)
}

func TestBuildTable_Rows(t *testing.T) {
	tbl := BuildTable(sampleRows(), "05 March 2024")
	require.Len(t, tbl.Rows, 4)

	total := tbl.Rows[0]
	assert.Equal(t, domain.GrandTotal, total.Label)
	assert.Equal(t, [domain.NumMetrics]string{
		"100.0%", "1234567", "9876543", "5.2%", "-3.4%", "0.0%", "98.7%", "102.0%",
	}, total.Cells)

	assert.Equal(t, "Snack", tbl.Rows[1].Label)
	assert.Equal(t, "        ChipsA", tbl.Rows[2].Label)
	assert.Equal(t, "            ProdX", tbl.Rows[3].Label)
	assert.Equal(t, 2, tbl.Rows[3].Depth)

	// null пустой, не ноль
	for _, c := range tbl.Rows[3].Cells {
		assert.Equal(t, "", c)
	}
	assert.Equal(t, "", tbl.Rows[1].Cells[2])
	assert.Equal(t, "1500", tbl.Rows[2].Cells[2])

	rec := tbl.Rows[2].Record()
	assert.Len(t, rec, domain.NumMetrics+1)
	assert.Equal(t, "12.3%", rec[7])
}

func TestIndentLabel(t *testing.T) {
	assert.Equal(t, "Snack", IndentLabel("Snack", 0))
	assert.Equal(t, domain.VariantIndent+"ChipsA", IndentLabel("ChipsA", 1))
	assert.Equal(t, domain.ProductIndent+"ProdX", IndentLabel("ProdX", 2))
}
