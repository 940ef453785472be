// Package ensemble blends the cross-validated predictions of several base
// models.
package ensemble

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/GeekyRiolu/personality-prediction/pkg/loader"
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
	"github.com/GeekyRiolu/personality-prediction/pkg/pipeline"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
	"github.com/GeekyRiolu/personality-prediction/pkg/train"
)

var ErrNoModels = errors.New("ensemble: no base models")

const (
	SimpleName   = "simple_average"
	WeightedName = "weighted_average"
	StackingName = "stacking"
)

// TopKName is the blend name for the k best models.
func TopKName(k int) string { return fmt.Sprintf("top%d_average", k) }

// Blend is one combined prediction. Scored is false when the blend has no
// trustworthy accuracy, as with the weighted fallback.
type Blend struct {
	Name       string
	OOF        []float64
	Test       []float64
	Accuracy   float64
	FoldScores []float64
	Scored     bool
	Members    []string
	Weights    []float64 // aligned with Members, nil for stacking
}

// Ensembler holds what every blend needs: labels, folds and the threshold.
type Ensembler struct {
	Y             []int
	Folds         []loader.Fold
	Threshold     float64
	TopK          int
	MaxIterations int
	Seed          int64
	Logger        zerolog.Logger

	// Method searches the weight space; nil means Nelder-Mead.
	Method optimize.Method
}

// All runs every strategy in order. A failed stacking is logged and left out.
func (e *Ensembler) All(results []*train.Result) ([]*Blend, error) {
	if len(results) == 0 {
		return nil, ErrNoModels
	}
	out := []*Blend{
		e.SimpleAverage(results),
		e.WeightedAverage(results),
		e.TopKAverage(results),
	}
	st, err := e.Stacking(results)
	if err != nil {
		e.Logger.Warn().Err(err).Msg("stacking failed, omitting")
	} else {
		out = append(out, st)
	}
	for _, b := range out {
		ev := e.Logger.Info().Str("blend", b.Name).Strs("members", b.Members)
		if b.Scored {
			ev = ev.Float64("accuracy", b.Accuracy)
		}
		ev.Msg("blended")
	}
	return out, nil
}

// SimpleAverage is the unweighted mean of every base model.
func (e *Ensembler) SimpleAverage(results []*train.Result) *Blend {
	w := uniform(len(results))
	return e.weighted(SimpleName, results, w, true)
}

// WeightedAverage searches for non-negative weights summing to one that
// maximise OOF accuracy, starting from uniform weights. Weights are the
// softmax of the free parameters, so the constraints always hold. If the
// optimizer fails the blend falls back to uniform weights and is unscored.
func (e *Ensembler) WeightedAverage(results []*train.Result) *Blend {
	n := len(results)
	objective := func(theta []float64) float64 {
		return -model.Accuracy(e.Y, combine(oofs(results), softmax(theta)), e.Threshold)
	}
	settings := &optimize.Settings{
		MajorIterations: max(e.MaxIterations, 1),
		Converger:       &optimize.FunctionConverge{Absolute: 1e-10, Iterations: 50},
	}
	method := e.Method
	if method == nil {
		method = &optimize.NelderMead{SimplexSize: 1}
	}
	res, err := optimize.Minimize(optimize.Problem{Func: objective}, make([]float64, n), settings, method)
	if err != nil || res == nil || math.IsNaN(res.F) {
		e.Logger.Warn().Err(err).Msg("weight optimisation failed, using uniform weights")
		return e.weighted(WeightedName, results, uniform(n), false)
	}
	return e.weighted(WeightedName, results, softmax(res.X), true)
}

// TopKAverage averages the TopK models with the best mean fold accuracy.
// Equal means keep training order.
func (e *Ensembler) TopKAverage(results []*train.Result) *Blend {
	k := min(max(e.TopK, 1), len(results))
	ranked := RankByMeanFold(results)[:k]
	return e.weighted(TopKName(k), ranked, uniform(k), true)
}

// RankByMeanFold orders results by mean fold accuracy, best first.
func RankByMeanFold(results []*train.Result) []*train.Result {
	ranked := append([]*train.Result(nil), results...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return stat.Mean(ranked[a].FoldScores, nil) > stat.Mean(ranked[b].FoldScores, nil)
	})
	return ranked
}

// Stacking fits a logistic meta-model on the base OOF columns with the same
// folds used for the base models, so meta OOF predictions never see their
// own rows. Test predictions average the fold meta-models applied to the
// base test columns.
func (e *Ensembler) Stacking(results []*train.Result) (*Blend, error) {
	if len(e.Folds) == 0 {
		return nil, errors.New("ensemble: stacking needs folds")
	}
	meta := columns(oofs(results))
	metaTest := columns(tests(results))
	b := &Blend{
		Name:    StackingName,
		OOF:     make([]float64, len(e.Y)),
		Test:    make([]float64, len(metaTest)),
		Members: names(results),
		Scored:  true,
	}
	k := float64(len(e.Folds))
	for fi, f := range e.Folds {
		lr := model.NewLogisticRegression(0.5, 100, 64, e.Seed)
		clf := pipeline.NewPipeline(lr, stats.NewStandardScaler())
		if err := clf.Fit(loader.Take(meta, f.Train), loader.TakeInts(e.Y, f.Train)); err != nil {
			return nil, fmt.Errorf("ensemble: stacking fold %d: %w", fi, err)
		}
		valid, err := clf.PredictProba(loader.Take(meta, f.Valid))
		if err != nil {
			return nil, fmt.Errorf("ensemble: stacking fold %d: %w", fi, err)
		}
		for j, i := range f.Valid {
			b.OOF[i] = valid[j]
		}
		if len(metaTest) > 0 {
			test, err := clf.PredictProba(metaTest)
			if err != nil {
				return nil, fmt.Errorf("ensemble: stacking fold %d test: %w", fi, err)
			}
			floats.AddScaled(b.Test, 1/k, test)
		}
	}
	e.score(b)
	return b, nil
}

func (e *Ensembler) weighted(name string, results []*train.Result, w []float64, scored bool) *Blend {
	b := &Blend{
		Name:    name,
		OOF:     combine(oofs(results), w),
		Test:    combine(tests(results), w),
		Members: names(results),
		Weights: w,
		Scored:  scored,
	}
	e.score(b)
	return b
}

// score fills the OOF accuracy and the per-fold accuracies.
func (e *Ensembler) score(b *Blend) {
	b.Accuracy = model.Accuracy(e.Y, b.OOF, e.Threshold)
	b.FoldScores = make([]float64, 0, len(e.Folds))
	for _, f := range e.Folds {
		b.FoldScores = append(b.FoldScores,
			model.Accuracy(loader.TakeInts(e.Y, f.Valid), takeFloats(b.OOF, f.Valid), e.Threshold))
	}
}

// combine returns sum_i w[i]*vecs[i].
func combine(vecs [][]float64, w []float64) []float64 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float64, len(vecs[0]))
	for i, v := range vecs {
		floats.AddScaled(out, w[i], v)
	}
	return out
}

func softmax(theta []float64) []float64 {
	w := append([]float64(nil), theta...)
	m := floats.Max(w)
	for i := range w {
		w[i] = math.Exp(w[i] - m)
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

func uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

func oofs(results []*train.Result) [][]float64 {
	out := make([][]float64, len(results))
	for i, r := range results {
		out[i] = r.OOF
	}
	return out
}

func tests(results []*train.Result) [][]float64 {
	out := make([][]float64, len(results))
	for i, r := range results {
		out[i] = r.Test
	}
	return out
}

func names(results []*train.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Name
	}
	return out
}

// columns turns one vector per model into one row per sample.
func columns(vecs [][]float64) [][]float64 {
	if len(vecs) == 0 {
		return nil
	}
	rows := make([][]float64, len(vecs[0]))
	for i := range rows {
		row := make([]float64, len(vecs))
		for j, v := range vecs {
			row[j] = v[i]
		}
		rows[i] = row
	}
	return rows
}

func takeFloats(v []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = v[i]
	}
	return out
}
