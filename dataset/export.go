package dataset

import (
	"math"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/cheggaaa/pb.v1"
	"gorgonia.org/tensor"

	"tabkit/config"
	"tabkit/internal/frameutil"
	"tabkit/loader"
)

// ErrNotNumeric is returned by Tensors for a target that is not numeric.
var ErrNotNumeric = errors.New("column is not numeric, encode it first")

// CSVOptions control ToCSV.
type CSVOptions struct {
	// Index writes the row number as an unnamed first column.
	Index bool
	// ChunkSize is the number of rows written at a time. 0 uses the
	// csv_chunksize option.
	ChunkSize int
	// Progress shows a progress bar on stderr. It is also enabled by the
	// progress option.
	Progress bool
}

// ToCSV writes the train frame to <name>_train.csv and, when present, the
// test frame to <name>_test.csv. Missing cells are written empty. It
// returns the written file names.
func (d *Dataset) ToCSV(name string, opts CSVOptions) ([]string, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = config.Default.Int(config.CSVChunkSize)
	}
	opts.Progress = opts.Progress || config.Default.Bool(config.Progress)

	files := []string{name + "_train.csv"}
	frames := []dataframe.DataFrame{d.train}
	if d.hasTest {
		files = append(files, name+"_test.csv")
		frames = append(frames, d.test)
	}
	for i, f := range files {
		if err := writeChunked(f, frames[i], opts); err != nil {
			return nil, err
		}
		d.log.Debug("wrote csv", zap.String("file", f), zap.Int("rows", frames[i].Nrow()))
	}
	return files, nil
}

func writeChunked(filename string, df dataframe.DataFrame, opts CSVOptions) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Wrap(cerr, "close csv")
		}
	}()

	bar := pb.New(df.Nrow()).Prefix(filename + " ")
	bar.Output = os.Stderr
	bar.NotPrint = !opts.Progress
	if opts.Progress {
		bar.Start()
		defer bar.Finish()
	}

	return loader.WriteCSVChunked(f, df, loader.WriteOptions{
		Index:     opts.Index,
		ChunkSize: opts.ChunkSize,
		OnChunk: func(rows int) {
			if opts.Progress {
				bar.Add(rows)
			}
		},
	})
}

// Tensors returns the numeric and boolean feature columns of the selected
// frame as a rows x features matrix, and the target as a vector. y is nil
// when no target is set. Missing values become NaN. It also returns the
// feature names in matrix column order.
func (d *Dataset) Tensors(which Which) (x, y *tensor.Dense, features []string, err error) {
	df, err := d.frame(which)
	if err != nil {
		return nil, nil, nil, err
	}
	types := frameutil.Types(df)
	for _, n := range df.Names() {
		if n == d.target {
			continue
		}
		if t := types[n]; frameutil.IsNumeric(t) || t == series.Bool {
			features = append(features, n)
		}
	}
	if len(features) == 0 {
		return nil, nil, nil, errors.New("tensors: no numeric feature columns")
	}

	nrow := df.Nrow()
	if nrow == 0 {
		return nil, nil, nil, errors.New("tensors: frame has no rows")
	}
	backing := make([]float64, 0, nrow*len(features))
	cols := make([]series.Series, len(features))
	for i, n := range features {
		cols[i] = df.Col(n)
	}
	for r := 0; r < nrow; r++ {
		for _, s := range cols {
			backing = append(backing, elemFloat(s.Elem(r)))
		}
	}
	x = tensor.New(tensor.WithShape(nrow, len(features)), tensor.WithBacking(backing))

	if d.target == "" || !frameutil.HasColumn(df, d.target) {
		return x, nil, features, nil
	}
	target := df.Col(d.target)
	if t := target.Type(); !frameutil.IsNumeric(t) && t != series.Bool {
		return nil, nil, nil, errors.Wrapf(ErrNotNumeric, "target %q", d.target)
	}
	labels := make([]float64, nrow)
	for r := range labels {
		labels[r] = elemFloat(target.Elem(r))
	}
	y = tensor.New(tensor.WithShape(nrow), tensor.WithBacking(labels))
	return x, y, features, nil
}

func elemFloat(e series.Element) float64 {
	if e.IsNA() {
		return math.NaN()
	}
	if e.Type() == series.Bool {
		if b, err := e.Bool(); err == nil && b {
			return 1
		}
		return 0
	}
	return e.Float()
}
