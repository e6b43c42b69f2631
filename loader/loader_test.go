package loader

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobgu/qframe"
)

const people = `name,age,score,member
ann,31,1.5,true
bob,NA,2.25,false
cid,45,,true
,52,4,false
`

func TestReadCSV(t *testing.T) {
	df, err := ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age", "score", "member"}, df.Names())
	assert.Equal(t, []series.Type{series.String, series.Int, series.Float, series.Bool}, df.Types())
	assert.True(t, df.Elem(1, 1).IsNA())
	assert.True(t, df.Elem(2, 2).IsNA())
	assert.True(t, df.Elem(3, 0).IsNA())
}

func TestReadCSVOptions(t *testing.T) {
	df, err := ReadCSV(strings.NewReader("a;b\n1;?\n2;x\n"),
		WithDelimiter(';'),
		WithMissing("?"),
		WithTypes(map[string]series.Type{"a": series.String}),
	)
	require.NoError(t, err)
	assert.Equal(t, series.String, df.Col("a").Type())
	assert.True(t, df.Elem(0, 1).IsNA())

	_, err = ReadCSV(strings.NewReader("a,b\n"))
	assert.Error(t, err)
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte(people), 0o644))

	df, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, df.Nrow())

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	df, err := ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, df))
	assert.True(t, strings.HasPrefix(buf.String(), "name,age,score,member\nann,31,1.5,true\nbob,,2.25,false\n"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, df.Records(), back.Records())
}

func TestWriteCSVChunked(t *testing.T) {
	df, err := ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	var buf bytes.Buffer
	var chunks []int
	require.NoError(t, WriteCSVChunked(&buf, df, WriteOptions{
		Index:     true,
		ChunkSize: 3,
		OnChunk:   func(rows int) { chunks = append(chunks, rows) },
	}))
	assert.Equal(t, ",name,age,score,member\n0,ann,31,1.5,true\n1,bob,,2.25,false\n2,cid,45,,true\n3,,52,4,false\n", buf.String())
	assert.Equal(t, []int{3, 1}, chunks)
}

func TestTrainTestSplit(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,v\n")
	for i := 0; i < 10; i++ {
		b.WriteString(string(rune('0'+i)) + ",1\n")
	}
	df, err := ReadCSV(strings.NewReader(b.String()))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(df, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Nrow())
	assert.Equal(t, 2, test.Nrow())

	seen := map[string]bool{}
	for _, id := range append(train.Col("id").Records(), test.Col("id").Records()...) {
		assert.False(t, seen[id], "row %s in both halves", id)
		seen[id] = true
	}
	assert.Len(t, seen, 10)

	again, _, err := TrainTestSplit(df, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train.Records(), again.Records())

	_, _, err = TrainTestSplit(df, 1, 42)
	assert.Equal(t, ErrBadFraction, errors.Cause(err))
	_, _, err = TrainTestSplit(df.Subset([]int{0}), 0.5, 42)
	assert.Error(t, err)
}

func TestTrainTestSplitKeepsBothHalvesNonEmpty(t *testing.T) {
	df, err := ReadCSV(strings.NewReader("a\n1\n2\n3\n"))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(df, 0.05, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, train.Nrow())
	assert.Equal(t, 1, test.Nrow())

	train, test, err = TrainTestSplit(df, 0.95, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, train.Nrow())
	assert.Equal(t, 2, test.Nrow())
}

func TestQFrameRoundTrip(t *testing.T) {
	qf := qframe.ReadCSV(strings.NewReader("label,pixel\n9,0.5\n2,1\n"))
	require.NoError(t, qf.Err)

	df, err := FromQFrame(qf)
	require.NoError(t, err)
	assert.Equal(t, []string{"label", "pixel"}, df.Names())
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, series.Int, df.Col("label").Type())

	back, err := ToQFrame(df)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Len())
	assert.Equal(t, []string{"label", "pixel"}, back.ColumnNames())
}

func TestDataFrameGoRoundTrip(t *testing.T) {
	ctx := context.Background()
	df, err := ReadCSV(strings.NewReader(people))
	require.NoError(t, err)

	out, err := ToDataFrameGo(ctx, df)
	require.NoError(t, err)
	assert.Equal(t, 4, out.NRows())
	assert.Equal(t, []string{"name", "age", "score", "member"}, out.Names())

	back, err := FromDataFrameGo(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, series.Int, back.Col("age").Type())
	assert.True(t, back.Elem(1, 1).IsNA())
	assert.Equal(t, "cid", back.Elem(2, 0).String())
	assert.Equal(t, 1, mustInt(t, back.Elem(0, 3)))
}

func TestFromDataFrameGoLoaded(t *testing.T) {
	ctx := context.Background()
	src, err := imports.LoadFromCSV(ctx, strings.NewReader("label,pixel1\n9,0\n2,0\n"))
	require.NoError(t, err)

	df, err := FromDataFrameGo(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "2"}, df.Col("label").Records())

	_, err = FromDataFrameGo(ctx, nil)
	assert.Error(t, err)
}

func mustInt(t *testing.T, e series.Element) int {
	t.Helper()
	i, err := e.Int()
	require.NoError(t, err)
	return i
}
