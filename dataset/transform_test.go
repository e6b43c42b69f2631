package dataset

import (
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabkit/cleaning"
	"tabkit/internal/frameutil"
)

func TestDrop(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		opts    DropOptions
		want    []string
	}{
		{"named", []string{"age"}, DropOptions{}, []string{"name", "city", "score"}},
		{"regexp", nil, DropOptions{Regexp: "^(s|c)"}, []string{"name", "age"}},
		{"named and regexp", []string{"name"}, DropOptions{Regexp: "e$"}, []string{"city"}},
		{"keep wins", []string{"age", "city"}, DropOptions{Keep: []string{"city"}}, []string{"name", "city", "score"}},
		{"everything but keep", nil, DropOptions{Keep: []string{"name"}}, []string{"name"}},
		{"regexp without match", nil, DropOptions{Regexp: "^zzz", Keep: []string{"age", "city"}}, []string{"age", "city"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := pair(t)
			_, err := d.Drop(tt.columns, tt.opts)
			require.NoError(t, err)
			test, _ := d.Test()
			assert.Equal(t, tt.want, d.Columns())
			assert.Equal(t, tt.want, test.Names())
		})
	}
}

func TestDropErrors(t *testing.T) {
	d := pair(t)

	_, err := d.Drop([]string{"nope"}, DropOptions{})
	assert.Equal(t, frameutil.ErrUnknownColumn, errors.Cause(err))

	_, err = d.Drop(nil, DropOptions{Regexp: "("})
	assert.Error(t, err)

	dropped, err := d.Drop([]string{"age"}, DropOptions{Keep: []string{"age"}})
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.Len(t, d.Columns(), 4)

	_, err = d.Drop(nil, DropOptions{})
	assert.Equal(t, cleaning.ErrNoColumnsLeft, errors.Cause(err))
	_, err = d.Drop(nil, DropOptions{Regexp: "."})
	assert.Equal(t, cleaning.ErrNoColumnsLeft, errors.Cause(err))
	assert.Len(t, d.Columns(), 4)
}

func TestDropTargetClearsIt(t *testing.T) {
	j := openJournal(t)
	d := pair(t, WithTarget("city"), WithJournalWriter(j))

	dropped, err := d.Drop([]string{"city", "age"}, DropOptions{Reason: "leaks"})
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "city"}, dropped)
	assert.Empty(t, d.Target())
	assert.Equal(t, []string{"Dropped columns: age, city. leaks"}, j.Entries())
}

func TestStandardizeColumnNames(t *testing.T) {
	train := load(t, "First Name,Age (years),city\nAnn,30,Paris\n")
	test := load(t, "First Name,Age (years),city\nBob,40,Rome\n")
	d, err := New(train, WithTest(test), WithTarget("Age (years)"))
	require.NoError(t, err)

	require.NoError(t, d.StandardizeColumnNames())
	want := []string{"first_name", "age_years_", "city"}
	assert.Equal(t, want, d.Columns())
	tf, _ := d.Test()
	assert.Equal(t, want, tf.Names())
	assert.Equal(t, "age_years_", d.Target())
	assert.Equal(t, "first_name", d.ColumnMapping()["First Name"])

	assert.Equal(t, []string{"First Name", "Age (years)", "city"}, train.Names())

	d, err = New(load(t, "a b,a-b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, ErrDuplicateColumn, errors.Cause(d.StandardizeColumnNames()))
	assert.Equal(t, []string{"a b", "a-b"}, d.Columns())
}

func TestExpandJSONColumn(t *testing.T) {
	train := load(t, `id,meta
1,"{""a"": 1, ""b"": {""c"": ""x""}}"
2,"{""a"": 2}"
`)
	test := load(t, `id,meta
3,"{""d"": true}"
`)
	d, err := New(train, WithTest(test))
	require.NoError(t, err)

	require.NoError(t, d.ExpandJSONColumn("meta"))
	want := []string{"id", "a", "b_c", "d"}
	assert.Equal(t, want, d.Columns())
	tf, _ := d.Test()
	assert.Equal(t, want, tf.Names())

	assert.Equal(t, []string{"1", "2"}, d.Train().Col("a").Records())
	assert.Equal(t, []string{"x", "NaN"}, d.Train().Col("b_c").Records())
	assert.Equal(t, []string{"true"}, tf.Col("d").Records())
	assert.Equal(t, []string{"NaN"}, tf.Col("a").Records())

	assert.Equal(t, frameutil.ErrUnknownColumn, errors.Cause(d.ExpandJSONColumn("meta")))

	bad, err := New(load(t, "id,meta\n1,{oops\n"))
	require.NoError(t, err)
	assert.Error(t, bad.ExpandJSONColumn("meta"))
	assert.Equal(t, []string{"id", "meta"}, bad.Columns())
}

func TestExpandJSONColumnTypes(t *testing.T) {
	train := load(t, `id,meta
1,"{""zip"": ""02139"", ""tags"": [1, 2], ""n"": null, ""x"": 1}"
2,"{""zip"": ""10001"", ""x"": 2.5}"
`)
	test := load(t, `id,meta
3,"{""x"": 4, ""flag"": false}"
`)
	d, err := New(train, WithTest(test))
	require.NoError(t, err)
	require.NoError(t, d.ExpandJSONColumn("meta"))

	tf, _ := d.Test()
	assert.Equal(t, []string{"id", "n", "tags", "x", "zip", "flag"}, d.Columns())
	assert.Equal(t, d.Train().Types(), tf.Types())

	want := map[string]series.Type{
		"n":    series.String,
		"tags": series.String,
		"x":    series.Float,
		"zip":  series.String,
		"flag": series.Bool,
	}
	for name, typ := range want {
		assert.Equal(t, typ, d.Train().Col(name).Type(), name)
	}

	assert.Equal(t, []string{"02139", "10001"}, d.Train().Col("zip").Records())
	assert.Equal(t, []string{"[1,2]", "NaN"}, d.Train().Col("tags").Records())
	assert.Equal(t, []string{"NaN", "NaN"}, d.Train().Col("n").Records())
	assert.Equal(t, []float64{1, 2.5}, d.Train().Col("x").Float())
	assert.Equal(t, []float64{4}, tf.Col("x").Float())
	assert.Equal(t, []string{"false"}, tf.Col("flag").Records())
	assert.Equal(t, []string{"NaN"}, tf.Col("zip").Records())
}

func TestExpandJSONColumnKeyCollision(t *testing.T) {
	d, err := New(load(t, `id,y,meta
1,2,"{""id"": 9}"
`))
	require.NoError(t, err)

	assert.Equal(t, ErrDuplicateColumn, errors.Cause(d.ExpandJSONColumn("meta")))
	assert.Equal(t, []string{"id", "y", "meta"}, d.Columns())
}

func TestEncodeTarget(t *testing.T) {
	j := openJournal(t)
	d := pair(t, WithTarget("city"), WithJournalWriter(j))

	require.NoError(t, d.EncodeTarget())
	assert.Equal(t, map[int]string{0: "Oslo", 1: "Paris", 2: "Rome"}, d.TargetMapping())

	y, _ := d.YTrain()
	codes, err := y.Int()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1, 0}, codes)

	yt, _ := d.YTest()
	codes, err = yt.Int()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, codes)
	assert.Equal(t, []string{"Encoded the target variable as numeric values."}, j.Entries())
}

func TestEncodeTargetNumericOrder(t *testing.T) {
	d, err := New(load(t, "y\n10\n9\n10\n100\n"), WithTarget("y"))
	require.NoError(t, err)
	require.NoError(t, d.EncodeTarget())
	assert.Equal(t, map[int]string{0: "9", 1: "10", 2: "100"}, d.TargetMapping())
}

func TestEncodeTargetErrors(t *testing.T) {
	d := pair(t)
	assert.Equal(t, ErrNoTarget, errors.Cause(d.EncodeTarget()))

	unseen, err := New(load(t, people), WithTest(load(t, "name,age,city,score\nGus,50,Lima,1.0\n")), WithTarget("city"))
	require.NoError(t, err)
	assert.Equal(t, ErrUnseenLabel, errors.Cause(unseen.EncodeTarget()))
	assert.Equal(t, "Paris", unseen.Train().Col("city").Elem(0).String())
	assert.Nil(t, unseen.TargetMapping())

	missing, err := New(load(t, people), WithTarget("age"))
	require.NoError(t, err)
	assert.Equal(t, ErrMissingTarget, errors.Cause(missing.EncodeTarget()))
}
