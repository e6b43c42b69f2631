// Package analysis computes summaries of a single gota frame: missing value
// counts, per-column descriptions and grouped statistics.
package analysis

import (
	"sort"

	"github.com/go-gota/gota/dataframe"

	"tabkit/internal/frameutil"
)

// Missing is the missing value count of one column.
type Missing struct {
	Column  string
	Total   int
	Percent float64
}

// MissingSummary returns the columns of df that have missing values, most
// missing first. Ties keep column order.
func MissingSummary(df dataframe.DataFrame) []Missing {
	nrow := df.Nrow()
	names := df.Names()
	var out []Missing
	for i, n := range frameutil.MissingCounts(df) {
		if n == 0 {
			continue
		}
		out = append(out, Missing{
			Column:  names[i],
			Total:   n,
			Percent: float64(n) / float64(nrow),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}
