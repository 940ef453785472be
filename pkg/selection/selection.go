// Package selection ranks feature columns against a binary target and keeps
// the strongest ones.
package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
)

var (
	ErrNoFeatures = errors.New("selection: frame has no numeric columns")
	ErrBadK       = errors.New("selection: k must be at least 1")
)

// Options tune the importance forest and the mutual-information estimator.
type Options struct {
	Trees    int
	MaxDepth int
	Bins     int // equal-width bins for continuous columns
	Seed     int64
}

func DefaultOptions(seed int64) Options {
	return Options{Trees: 100, MaxDepth: 10, Bins: 10, Seed: seed}
}

// Ranked holds the three scores computed for one column.
type Ranked struct {
	Name        string  `json:"name"`
	MutualInfo  float64 `json:"mutual_info"`
	Importance  float64 `json:"importance"`
	Correlation float64 `json:"abs_correlation"`
	Selected    bool    `json:"selected"`
}

// Result lists the selected columns in ranking order and every column's
// scores, best importance first.
type Result struct {
	Selected []string
	Ranking  []Ranked
}

// Select scores every numeric column of f and keeps the k with the highest
// forest importance. Ties keep column order; k larger than the column count
// keeps everything.
func Select(f *data.Frame, y []int, k int, opts Options) (*Result, error) {
	if k < 1 {
		return nil, ErrBadK
	}
	names := f.NumericNames()
	if len(names) == 0 {
		return nil, ErrNoFeatures
	}
	if f.Len() != len(y) {
		return nil, fmt.Errorf("selection: %d rows, %d labels: %w", f.Len(), len(y), data.ErrLength)
	}
	X, err := f.Matrix(names)
	if err != nil {
		return nil, err
	}

	mi := make([]float64, len(names))
	corr := make([]float64, len(names))
	var imp []float64
	yf := stats.Ints(y)

	var g errgroup.Group
	g.Go(func() error {
		rf := model.NewRandomForest(
			model.WithNEstimators(opts.Trees),
			model.WithForestMaxDepth(opts.MaxDepth),
			model.WithForestSeed(opts.Seed),
		)
		if err := rf.Fit(X, y); err != nil {
			return fmt.Errorf("selection: importance forest: %w", err)
		}
		imp = rf.FeatureImportances()
		return nil
	})
	for j, name := range names {
		g.Go(func() error {
			col, err := f.Column(name)
			if err != nil {
				return err
			}
			mi[j] = MutualInformation(col, y, opts.Bins)
			corr[j] = math.Abs(stats.Correlation(col, yf))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := stats.ArgsortDesc(imp)
	res := &Result{Ranking: make([]Ranked, len(names))}
	for rank, j := range order {
		r := Ranked{Name: names[j], MutualInfo: mi[j], Importance: imp[j], Correlation: corr[j]}
		if rank < k {
			r.Selected = true
			res.Selected = append(res.Selected, names[j])
		}
		res.Ranking[rank] = r
	}
	return res, nil
}

// Apply projects f onto the selected columns.
func (r *Result) Apply(f *data.Frame) (*data.Frame, error) {
	return f.Select(r.Selected)
}

// MutualInformation estimates I(X;Y) in nats. Integer-valued columns with at
// most 2*bins distinct values are treated as discrete; anything else is
// binned into equal-width intervals over its range. NaN cells are skipped.
func MutualInformation(x []float64, y []int, bins int) float64 {
	bins = max(bins, 2)
	codes := discretize(x, bins)

	joint := map[[2]int]float64{}
	px := map[int]float64{}
	py := map[int]float64{}
	n := 0.0
	for i, c := range codes {
		if c < 0 {
			continue
		}
		joint[[2]int{c, y[i]}]++
		px[c]++
		py[y[i]]++
		n++
	}
	if n == 0 {
		return 0
	}

	keys := make([][2]int, 0, len(joint))
	for key := range joint {
		keys = append(keys, key)
	}
	// fixed summation order keeps the result bit-for-bit reproducible
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	mi := 0.0
	for _, key := range keys {
		pxy := joint[key] / n
		mi += pxy * math.Log(pxy/((px[key[0]]/n)*(py[key[1]]/n)))
	}
	return math.Max(mi, 0)
}

// discretize maps values to bin codes; -1 marks NaN.
func discretize(x []float64, bins int) []int {
	codes := make([]int, len(x))
	distinct := map[float64]int{}
	integral := true
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if v != math.Trunc(v) {
			integral = false
		}
		if len(distinct) <= 2*bins {
			distinct[v] = 0
		}
	}

	if integral && len(distinct) <= 2*bins {
		vals := make([]float64, 0, len(distinct))
		for v := range distinct {
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		for c, v := range vals {
			distinct[v] = c
		}
		for i, v := range x {
			if math.IsNaN(v) {
				codes[i] = -1
			} else {
				codes[i] = distinct[v]
			}
		}
		return codes
	}

	lo, hi := stats.MinMax(x)
	width := (hi - lo) / float64(bins)
	for i, v := range x {
		switch {
		case math.IsNaN(v):
			codes[i] = -1
		case width == 0:
			codes[i] = 0
		default:
			codes[i] = min(int((v-lo)/width), bins-1)
		}
	}
	return codes
}
