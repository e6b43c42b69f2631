package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabkit/config"
	"tabkit/internal/frameutil"
	"tabkit/journal"
)

func load(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Err)
	return df
}

const people = `name,age,city,score
Ann,30,Paris,1.5
Bob,NA,Rome,2.0
Cid,25,Paris,NA
Dan,40,Oslo,3.5
`

const visitors = `name,age,city,score
Eve,22,Rome,1.0
Fay,35,Paris,2.5
`

func pair(t *testing.T, opts ...Option) *Dataset {
	t.Helper()
	d, err := New(load(t, people), append([]Option{WithTest(load(t, visitors))}, opts...)...)
	require.NoError(t, err)
	return d
}

func openJournal(t *testing.T) *journal.Journal {
	t.Helper()
	j, err := journal.Open(t.TempDir(), "test")
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestNew(t *testing.T) {
	d, err := New(load(t, people))
	require.NoError(t, err)
	assert.False(t, d.HasTest())
	assert.Equal(t, []string{"name", "age", "city", "score"}, d.Columns())
	assert.False(t, d.Frames().IsPair())
	assert.Contains(t, d.String(), "Ann")

	d = pair(t, WithTarget("city"))
	test, ok := d.Test()
	require.True(t, ok)
	assert.Equal(t, 2, test.Nrow())
	assert.Equal(t, "city", d.Target())
	assert.True(t, d.Frames().IsPair())

	_, err = New(load(t, people), WithTarget("nope"))
	assert.Equal(t, frameutil.ErrUnknownColumn, errors.Cause(err))

	_, err = New(dataframe.DataFrame{Err: errors.New("broken")})
	assert.Error(t, err)
}

func TestNewSplit(t *testing.T) {
	d, err := New(load(t, people), WithSplit(0.25), WithSeed(1))
	require.NoError(t, err)
	require.True(t, d.HasTest())
	test, _ := d.Test()
	assert.Equal(t, 3, d.Train().Nrow())
	assert.Equal(t, 1, test.Nrow())

	again, err := New(load(t, people), WithSplit(0.25), WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, d.Train().Records(), again.Train().Records())

	d, err = New(load(t, people), WithSplit(0))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Train().Nrow())

	d, err = New(load(t, people), WithTest(load(t, visitors)), WithSplit(0.5))
	require.NoError(t, err)
	assert.Equal(t, 4, d.Train().Nrow())
}

func TestNewJournal(t *testing.T) {
	require.NoError(t, config.Default.Set(config.JournalDir, t.TempDir()))
	t.Cleanup(func() { config.Default.Reset(config.JournalDir) })

	d, err := New(load(t, people), WithJournal("people"))
	require.NoError(t, err)
	require.NotNil(t, d.Journal())
	assert.Equal(t, "people.txt", filepath.Base(d.Journal().Filename()))

	_, err = d.Drop([]string{"age"}, DropOptions{Reason: "unused"})
	require.NoError(t, err)
	require.NoError(t, d.Close())

	lines, err := journal.Read(d.Journal().Filename())
	require.NoError(t, err)
	assert.Equal(t, []string{"Dropped columns: age. unused"}, lines)
}

func TestCol(t *testing.T) {
	d := pair(t)
	s, err := d.Col("city")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Rome", "Paris", "Oslo"}, s.Records())

	_, err = d.Col("nope")
	assert.Equal(t, frameutil.ErrUnknownColumn, errors.Cause(err))
}

func TestSetScalar(t *testing.T) {
	d := pair(t)
	require.NoError(t, d.Set("const", 7))

	test, _ := d.Test()
	assert.Equal(t, []string{"7", "7", "7", "7"}, d.Train().Col("const").Records())
	assert.Equal(t, []string{"7", "7"}, test.Col("const").Records())
	assert.Equal(t, series.Int, test.Col("const").Type())

	require.NoError(t, d.Set("city", "Lima"))
	test, _ = d.Test()
	assert.Equal(t, []string{"Lima", "Lima"}, test.Col("city").Records())
}

func TestSetSlice(t *testing.T) {
	d := pair(t)

	require.NoError(t, d.Set("tr", []int{1, 2, 3, 4}))
	test, _ := d.Test()
	assert.Equal(t, []string{"1", "2", "3", "4"}, d.Train().Col("tr").Records())
	assert.Equal(t, []string{"NaN", "NaN"}, test.Col("tr").Records())
	assert.Equal(t, series.Int, test.Col("tr").Type())

	require.NoError(t, d.Set("te", []string{"a", "b"}))
	test, _ = d.Test()
	assert.Equal(t, []string{"a", "b"}, test.Col("te").Records())
	assert.Equal(t, []string{"NaN", "NaN", "NaN", "NaN"}, d.Train().Col("te").Records())

	require.NoError(t, d.Set("name", series.New([]string{"w", "x", "y", "z"}, series.String, "ignored")))
	assert.Equal(t, []string{"w", "x", "y", "z"}, d.Train().Col("name").Records())
	test, _ = d.Test()
	assert.Equal(t, []string{"Eve", "Fay"}, test.Col("name").Records())

	err := d.Set("bad", []int{1, 2, 3})
	assert.Equal(t, ErrLengthMismatch, errors.Cause(err))

	err = d.Set("bad", map[string]int{})
	assert.Equal(t, ErrUnsupportedValue, errors.Cause(err))
	assert.Equal(t, d.Train().Ncol(), test.Ncol())
}

func TestSetTrainTest(t *testing.T) {
	d := pair(t)
	require.NoError(t, d.Set("w", TrainTest{Train: []float64{1, 2, 3, 4}, Test: []float64{5, 6}}))
	test, _ := d.Test()
	assert.Equal(t, []float64{1, 2, 3, 4}, d.Train().Col("w").Float())
	assert.Equal(t, []float64{5, 6}, test.Col("w").Float())

	err := d.Set("w", TrainTest{Train: []float64{1, 2, 3, 4}, Test: []float64{5}})
	assert.Equal(t, ErrLengthMismatch, errors.Cause(err))

	full, err := New(load(t, people))
	require.NoError(t, err)
	err = full.Set("w", TrainTest{Train: []int{1, 2, 3, 4}})
	assert.Equal(t, ErrNoTest, errors.Cause(err))

	require.NoError(t, full.Set("w", []bool{true, false, true, false}))
	assert.Equal(t, series.Bool, full.Train().Col("w").Type())
}

func TestTargetAccessors(t *testing.T) {
	d := pair(t)
	_, ok := d.YTrain()
	assert.False(t, ok)
	_, ok = d.YTest()
	assert.False(t, ok)

	require.NoError(t, d.SetYTrain([]int{0, 1, 0, 1}))
	assert.Equal(t, DefaultTarget, d.Target())
	y, ok := d.YTrain()
	require.True(t, ok)
	assert.Equal(t, []string{"0", "1", "0", "1"}, y.Records())

	yt, ok := d.YTest()
	require.True(t, ok)
	assert.Equal(t, []string{"NaN", "NaN"}, yt.Records())

	require.NoError(t, d.SetYTest([]int{1, 0}))
	yt, _ = d.YTest()
	assert.Equal(t, []string{"1", "0"}, yt.Records())

	assert.Error(t, d.SetYTest([]int{1, 0, 1}))

	full, err := New(load(t, people), WithTarget("score"))
	require.NoError(t, err)
	assert.Equal(t, ErrNoTest, errors.Cause(full.SetYTest([]int{1})))
	require.NoError(t, full.SetYTrain([]float64{1, 2, 3, 4}))
	assert.Equal(t, "score", full.Target())
}

func TestCopy(t *testing.T) {
	d := pair(t, WithTarget("city"))
	require.NoError(t, d.EncodeTarget())

	c := d.Copy()
	require.NoError(t, c.Set("extra", 1))
	_, err := c.Drop([]string{"age"}, DropOptions{})
	require.NoError(t, err)

	assert.NotContains(t, d.Columns(), "extra")
	assert.Contains(t, d.Columns(), "age")
	assert.Equal(t, d.TargetMapping(), c.TargetMapping())
}

func TestOptions(t *testing.T) {
	d := pair(t)
	t.Cleanup(func() { config.Default.Reset("all") })

	require.NoError(t, d.SetOption(config.CSVChunkSize, 5))
	v, err := d.GetOption(config.CSVChunkSize)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	desc, err := d.DescribeOption(config.CSVChunkSize)
	require.NoError(t, err)
	assert.Contains(t, desc, "[currently: 5]")

	require.NoError(t, d.ResetOption(config.CSVChunkSize))
	v, _ = d.GetOption(config.CSVChunkSize)
	assert.Equal(t, 10000, v)

	assert.Equal(t, config.ErrUnknownOption, errors.Cause(d.SetOption("nope", 1)))
}
