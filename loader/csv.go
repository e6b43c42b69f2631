// Package loader reads tabular data into gota frames and converts between
// gota, qframe and dataframe-go representations.
package loader

import (
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"

	"tabkit/config"
)

type options struct {
	missing   []string
	types     map[string]series.Type
	delimiter rune
}

// Option configures how a frame is loaded.
type Option func(*options)

// WithMissing overrides the cell values read as missing.
func WithMissing(markers ...string) Option {
	return func(o *options) {
		o.missing = markers
	}
}

// WithTypes forces the type of the named columns.
func WithTypes(types map[string]series.Type) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		o.delimiter = r
	}
}

func newOptions(opts []Option) options {
	o := options{
		missing:   config.Default.Strings(config.MissingValues),
		delimiter: ',',
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) load() []dataframe.LoadOption {
	lo := []dataframe.LoadOption{
		dataframe.NaNValues(o.missing),
		dataframe.WithDelimiter(o.delimiter),
	}
	if o.types != nil {
		lo = append(lo, dataframe.WithTypes(o.types))
	}
	return lo
}

// ReadCSV loads a CSV stream with a header row.
func ReadCSV(r io.Reader, opts ...Option) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r, newOptions(opts).load()...)
	if df.Err != nil {
		return df, errors.Wrap(df.Err, "read csv")
	}
	return df, nil
}

// ReadCSVFile loads the CSV file at path.
func ReadCSVFile(path string, opts ...Option) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "open csv")
	}
	defer f.Close()
	df, err := ReadCSV(f, opts...)
	return df, errors.Wrap(err, path)
}

// LoadRecords builds a frame from string records, the first being the header.
func LoadRecords(records [][]string, opts ...Option) (dataframe.DataFrame, error) {
	df := dataframe.LoadRecords(records, newOptions(opts).load()...)
	if df.Err != nil {
		return df, errors.Wrap(df.Err, "load records")
	}
	return df, nil
}
