package loader

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"

	"tabkit/internal/frameutil"
)

// WriteOptions control WriteCSVChunked.
type WriteOptions struct {
	// Index writes the row number as an unnamed first column.
	Index bool
	// ChunkSize is the number of rows flushed at a time. 0 writes every row
	// in one chunk.
	ChunkSize int
	// OnChunk, when set, is called with the row count of every flushed chunk.
	OnChunk func(rows int)
}

// WriteCSV writes df with a header row. Missing cells become empty fields
// and numbers are written without trailing zeros.
func WriteCSV(w io.Writer, df dataframe.DataFrame) error {
	return WriteCSVChunked(w, df, WriteOptions{})
}

// WriteCSVChunked writes df like WriteCSV, flushing every opts.ChunkSize
// rows.
func WriteCSVChunked(w io.Writer, df dataframe.DataFrame, opts WriteOptions) error {
	if df.Err != nil {
		return errors.Wrap(df.Err, "write csv")
	}
	nrow := df.Nrow()
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = nrow
	}

	cw := csv.NewWriter(w)
	header := df.Names()
	if opts.Index {
		header = append([]string{""}, header...)
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for start := 0; start < nrow; start += chunk {
		end := start + chunk
		if end > nrow {
			end = nrow
		}
		for r := start; r < end; r++ {
			rec := formatRow(df, r)
			if opts.Index {
				rec = append([]string{strconv.Itoa(r)}, rec...)
			}
			if err := cw.Write(rec); err != nil {
				return errors.Wrap(err, "write csv")
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return errors.Wrap(err, "flush csv")
		}
		if opts.OnChunk != nil {
			opts.OnChunk(end - start)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

func formatRow(df dataframe.DataFrame, r int) []string {
	row := make([]string, df.Ncol())
	for c := range row {
		row[c] = frameutil.Format(df.Elem(r, c))
	}
	return row
}
