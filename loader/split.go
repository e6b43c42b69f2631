package loader

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/pkg/errors"
)

// ErrBadFraction is returned for a test fraction outside (0, 1).
var ErrBadFraction = errors.New("test fraction must be between 0 and 1")

// TrainTestSplit shuffles the rows of df with the given seed and moves
// round(n*testFraction) of them into the test frame. Both halves keep the
// original relative row order.
func TrainTestSplit(df dataframe.DataFrame, testFraction float64, seed int64) (train, test dataframe.DataFrame, err error) {
	if df.Err != nil {
		return df, df, errors.Wrap(df.Err, "split")
	}
	if testFraction <= 0 || testFraction >= 1 {
		return df, df, errors.Wrapf(ErrBadFraction, "got %v", testFraction)
	}
	n := df.Nrow()
	if n < 2 {
		return df, df, errors.Errorf("split: need at least 2 rows, have %d", n)
	}

	nTest := int(math.Round(float64(n) * testFraction))
	if nTest == 0 {
		nTest = 1
	}
	if nTest == n {
		nTest = n - 1
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	testIdx := append([]int(nil), indices[:nTest]...)
	trainIdx := append([]int(nil), indices[nTest:]...)
	sort.Ints(testIdx)
	sort.Ints(trainIdx)

	train = df.Subset(trainIdx)
	test = df.Subset(testIdx)
	if train.Err != nil {
		return train, test, errors.Wrap(train.Err, "split train")
	}
	if test.Err != nil {
		return train, test, errors.Wrap(test.Err, "split test")
	}
	return train, test, nil
}
