package analysis

import (
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/olekukonko/tablewriter"

	"tabkit/internal/frameutil"
)

// RenderTable writes df to w as an aligned text table. Missing cells are
// shown as NaN.
func RenderTable(w io.Writer, df dataframe.DataFrame) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(df.Names())
	nrow, ncol := df.Dims()
	for r := 0; r < nrow; r++ {
		row := make([]string, ncol)
		for c := 0; c < ncol; c++ {
			row[c] = frameutil.Canonical(df.Elem(r, c))
		}
		table.Append(row)
	}
	table.Render()
}

// RenderMissing writes a missing value summary as a table titled by name.
func RenderMissing(w io.Writer, name string, summary []Missing) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{name, "total", "percent"})
	for _, m := range summary {
		table.Append([]string{
			m.Column,
			strconv.Itoa(m.Total),
			strconv.FormatFloat(m.Percent*100, 'f', 2, 64) + "%",
		})
	}
	table.Render()
}
