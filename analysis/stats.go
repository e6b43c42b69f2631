package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"

	"tabkit/internal/frameutil"
)

// quantile is the linear interpolation between closest ranks (the "type 7"
// estimator). sorted must be in increasing order.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// meanAbsDeviation is the mean absolute deviation around the mean.
func meanAbsDeviation(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	m, _ := stats.Mean(x)
	var s float64
	for _, v := range x {
		s += math.Abs(v - m)
	}
	return s / float64(len(x))
}

// sampleStd returns NaN for fewer than two values.
func sampleStd(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	sd, err := stats.StandardDeviationSample(x)
	if err != nil {
		return math.NaN()
	}
	return sd
}

func sampleVar(x []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	v, err := stats.SampleVariance(x)
	if err != nil {
		return math.NaN()
	}
	return v
}

// orNaN drops the error of a montanaflynn/stats call in favour of NaN.
func orNaN(v float64, err error) float64 {
	if err != nil {
		return math.NaN()
	}
	return v
}

// modeString returns the most frequent value of vals. Ties go to the
// smallest value, numerically when numeric is set.
func modeString(vals []string, numeric bool) (string, bool) {
	if len(vals) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(vals))
	for _, v := range vals {
		counts[v]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return less(keys[i], keys[j], numeric)
	})
	return keys[0], true
}

func less(a, b string, numeric bool) bool {
	if numeric {
		fa, errA := strconv.ParseFloat(a, 64)
		fb, errB := strconv.ParseFloat(b, 64)
		if errA == nil && errB == nil {
			return fa < fb
		}
	}
	return a < b
}

func nunique(s series.Series) int {
	seen := make(map[string]struct{})
	for _, v := range frameutil.Present(s) {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func sortedCopy(x []float64) []float64 {
	out := append([]float64(nil), x...)
	sort.Float64s(out)
	return out
}
