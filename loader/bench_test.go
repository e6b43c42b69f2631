package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobgu/qframe"
)

// pixels builds a label,pixel1..pixelN table like the fashion-mnist CSV.
func pixels(rows, width int) []byte {
	var b strings.Builder
	b.WriteString("label")
	for p := 1; p <= width; p++ {
		fmt.Fprintf(&b, ",pixel%d", p)
	}
	b.WriteByte('\n')
	for r := 0; r < rows; r++ {
		fmt.Fprintf(&b, "%d", r%10)
		for p := 1; p <= width; p++ {
			fmt.Fprintf(&b, ",%d", (r*p)%3)
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func TestFilterAgreesWithQFrame(t *testing.T) {
	df, err := ReadCSV(bytes.NewReader(pixels(50, 4)))
	require.NoError(t, err)

	filtered := df.
		Filter(dataframe.F{Colname: "label", Comparator: series.Eq, Comparando: 2}).
		Filter(dataframe.F{Colname: "pixel2", Comparator: series.Eq, Comparando: 0})
	require.NoError(t, filtered.Err)

	qf, err := ToQFrame(df)
	require.NoError(t, err)
	qfiltered := qf.Filter(qframe.And(
		qframe.Filter{Column: "label", Comparator: "=", Arg: 2},
		qframe.Filter{Column: "pixel2", Comparator: "=", Arg: 0},
	))
	require.NoError(t, qfiltered.Err)

	assert.Equal(t, filtered.Nrow(), qfiltered.Len())
	assert.NotZero(t, filtered.Nrow())
}

func BenchmarkReadCSVGota(b *testing.B) {
	data := pixels(2000, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ReadCSV(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReadCSVQFrame(b *testing.B) {
	data := pixels(2000, 32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if qf := qframe.ReadCSV(bytes.NewReader(data)); qf.Err != nil {
			b.Fatal(qf.Err)
		}
	}
}

func BenchmarkReadCSVDataFrameGo(b *testing.B) {
	data := pixels(2000, 32)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := imports.LoadFromCSV(ctx, bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFilterGota(b *testing.B) {
	df, err := ReadCSV(bytes.NewReader(pixels(2000, 32)))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		df.Filter(dataframe.F{Colname: "label", Comparator: series.Eq, Comparando: 9})
	}
}

func BenchmarkFilterQFrame(b *testing.B) {
	qf := qframe.ReadCSV(bytes.NewReader(pixels(2000, 32)))
	if qf.Err != nil {
		b.Fatal(qf.Err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		qf.Filter(qframe.Filter{Column: "label", Comparator: "=", Arg: 9})
	}
}
