// Package dataset keeps a train frame and an optional test frame in step.
//
// Every column level mutation made through a Dataset is applied to both
// frames, and the target field, when set, always names a column of the
// train frame.
package dataset

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"tabkit/cleaning"
	"tabkit/config"
	"tabkit/internal/frameutil"
	"tabkit/journal"
	"tabkit/loader"
)

var (
	// ErrNoTest is returned by operations that need test data.
	ErrNoTest = errors.New("dataset has no test data")
	// ErrNoTarget is returned when the target field is not set.
	ErrNoTarget = errors.New("target field is not set")
	// ErrLengthMismatch is returned when values match neither frame's row count.
	ErrLengthMismatch = errors.New("length does not equal the number of rows of the train or test data")
	// ErrUnsupportedValue is returned for values Set cannot turn into a column.
	ErrUnsupportedValue = errors.New("unsupported value")
)

// Which selects one frame of a Dataset.
type Which string

const (
	TrainSet Which = "train"
	TestSet  Which = "test"
)

// Dataset is a train frame with an optional test frame.
type Dataset struct {
	train   dataframe.DataFrame
	test    dataframe.DataFrame
	hasTest bool

	target        string
	targetMapping map[int]string
	colMapping    map[string]string

	journal *journal.Journal
	log     *zap.Logger
}

type settings struct {
	test        *dataframe.DataFrame
	split       bool
	fraction    float64
	seed        *int64
	target      string
	mapping     map[int]string
	journalName string
	journal     *journal.Journal
	log         *zap.Logger
}

// Option configures New.
type Option func(*settings)

// WithTest sets the test frame.
func WithTest(test dataframe.DataFrame) Option {
	return func(s *settings) { s.test = &test }
}

// WithSplit splits the train frame into train and test when no test frame
// is given. A fraction of 0 uses the test_split_percentage option.
func WithSplit(fraction float64) Option {
	return func(s *settings) {
		s.split = true
		s.fraction = fraction
	}
}

// WithSeed overrides the random_seed option for WithSplit.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = &seed }
}

// WithTarget sets the target field.
func WithTarget(column string) Option {
	return func(s *settings) { s.target = column }
}

// WithTargetMapping sets the code to label mapping of an already encoded
// target.
func WithTargetMapping(m map[int]string) Option {
	return func(s *settings) { s.mapping = m }
}

// WithJournal records transformations in <journal_dir>/<name>.txt.
func WithJournal(name string) Option {
	return func(s *settings) { s.journalName = name }
}

// WithJournalWriter records transformations in an already open journal.
func WithJournalWriter(j *journal.Journal) Option {
	return func(s *settings) { s.journal = j }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.log = l }
}

// New builds a Dataset around train.
func New(train dataframe.DataFrame, opts ...Option) (*Dataset, error) {
	s := settings{log: zap.NewNop()}
	for _, o := range opts {
		o(&s)
	}
	if err := frameutil.Err(train); err != nil {
		return nil, errors.Wrap(err, "train data")
	}

	d := &Dataset{
		train:         train,
		target:        s.target,
		targetMapping: copyMapping(s.mapping),
		log:           s.log,
		journal:       s.journal,
	}

	switch {
	case s.test != nil:
		if err := frameutil.Err(*s.test); err != nil {
			return nil, errors.Wrap(err, "test data")
		}
		d.test, d.hasTest = *s.test, true
	case s.split:
		fraction := s.fraction
		if fraction == 0 {
			fraction = config.Default.Float(config.TestSplitPercentage)
		}
		seed := int64(config.Default.Int(config.RandomSeed))
		if s.seed != nil {
			seed = *s.seed
		}
		tr, te, err := loader.TrainTestSplit(train, fraction, seed)
		if err != nil {
			return nil, err
		}
		d.train, d.test, d.hasTest = tr, te, true
		d.log.Debug("split dataset",
			zap.Int("train_rows", tr.Nrow()),
			zap.Int("test_rows", te.Nrow()),
			zap.Int64("seed", seed))
	}

	if d.target != "" && !frameutil.HasColumn(d.train, d.target) {
		return nil, errors.Wrapf(frameutil.ErrUnknownColumn, "target %q", d.target)
	}

	if s.journalName != "" && d.journal == nil {
		j, err := journal.Open(config.Default.String(config.JournalDir), s.journalName)
		if err != nil {
			return nil, err
		}
		d.journal = j
	}
	return d, nil
}

// String renders the train frame.
func (d *Dataset) String() string {
	return d.train.String()
}

// Train returns the train frame.
func (d *Dataset) Train() dataframe.DataFrame {
	return d.train
}

// Test returns the test frame, if there is one.
func (d *Dataset) Test() (dataframe.DataFrame, bool) {
	return d.test, d.hasTest
}

// HasTest reports whether the dataset has test data.
func (d *Dataset) HasTest() bool {
	return d.hasTest
}

// Frames returns the data in the shape the cleaning package takes: the full
// dataset, or the train/test pair.
func (d *Dataset) Frames() cleaning.Frames {
	if d.hasTest {
		return cleaning.Pair(d.train, d.test)
	}
	return cleaning.Full(d.train)
}

func (d *Dataset) setFrames(f cleaning.Frames) {
	if f.IsPair() {
		d.train, d.test = *f.Train, *f.Test
		return
	}
	d.train = *f.Data
}

// frame returns the frame selected by which. Without test data both select
// the train frame.
func (d *Dataset) frame(which Which) (dataframe.DataFrame, error) {
	switch which {
	case TrainSet, "":
		return d.train, nil
	case TestSet:
		if !d.hasTest {
			return d.train, nil
		}
		return d.test, nil
	}
	return d.train, errors.Errorf("unknown dataset %q, use train or test", which)
}

// Col returns a column of the train frame.
func (d *Dataset) Col(name string) (series.Series, error) {
	if !frameutil.HasColumn(d.train, name) {
		return series.Series{}, errors.Wrapf(frameutil.ErrUnknownColumn, "%q", name)
	}
	return d.train.Col(name), nil
}

// Columns returns the column names of the train frame.
func (d *Dataset) Columns() []string {
	return d.train.Names()
}

// Target returns the target field, or "" when none is set.
func (d *Dataset) Target() string {
	return d.target
}

// TargetMapping returns the code to label mapping set by EncodeTarget.
func (d *Dataset) TargetMapping() map[int]string {
	return copyMapping(d.targetMapping)
}

// ColumnMapping returns the renames made by StandardizeColumnNames.
func (d *Dataset) ColumnMapping() map[string]string {
	out := make(map[string]string, len(d.colMapping))
	for k, v := range d.colMapping {
		out[k] = v
	}
	return out
}

// Journal returns the transformation journal, or nil.
func (d *Dataset) Journal() *journal.Journal {
	return d.journal
}

// Copy returns a deep copy of the frames and mappings. The copy shares the
// journal and logger.
func (d *Dataset) Copy() *Dataset {
	c := *d
	c.train = d.train.Copy()
	if d.hasTest {
		c.test = d.test.Copy()
	}
	c.targetMapping = copyMapping(d.targetMapping)
	if d.colMapping != nil {
		c.colMapping = d.ColumnMapping()
	}
	return &c
}

// Close closes the journal.
func (d *Dataset) Close() error {
	if d.journal == nil {
		return nil
	}
	return d.journal.Close()
}

func (d *Dataset) record(msg string) error {
	if d.journal == nil {
		return nil
	}
	return d.journal.Log(msg)
}

// syncTarget forgets a target whose column no longer exists.
func (d *Dataset) syncTarget() {
	if d.target != "" && !frameutil.HasColumn(d.train, d.target) {
		d.log.Debug("target column removed", zap.String("target", d.target))
		d.target = ""
		d.targetMapping = nil
	}
}

func copyMapping(m map[int]string) map[int]string {
	if m == nil {
		return nil
	}
	out := make(map[int]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
