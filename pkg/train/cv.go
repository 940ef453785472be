// Package train runs stratified K-fold cross-validation for the base models.
package train

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/GeekyRiolu/personality-prediction/pkg/loader"
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
)

var (
	ErrUnknownKind = errors.New("train: unknown model kind")
	ErrOverlap     = errors.New("train: row appears in more than one validation fold")
	ErrUncovered   = errors.New("train: row is in no validation fold")
	ErrNoFolds     = errors.New("train: no folds")
)

// Result is the cross-validated output of one model. OOF[i] was predicted by
// the fold model that did not see row i; Test is the mean of the K fold
// models' test predictions.
type Result struct {
	Name        string
	OOF         []float64
	Test        []float64
	FoldScores  []float64
	Accuracy    float64
	Importances []float64 // fold-averaged, nil when the model has none
	Elapsed     time.Duration
}

// CrossValidate fits a fresh instance of spec on every fold.
func CrossValidate(spec Spec, X [][]float64, y []int, Xtest [][]float64, folds []loader.Fold, threshold float64) (*Result, error) {
	if len(folds) == 0 {
		return nil, ErrNoFolds
	}
	start := time.Now()
	res := &Result{
		Name:       spec.Name,
		OOF:        make([]float64, len(y)),
		Test:       make([]float64, len(Xtest)),
		FoldScores: make([]float64, 0, len(folds)),
	}
	written := make([]bool, len(y))
	k := float64(len(folds))

	for fi, f := range folds {
		clf, err := spec.New()
		if err != nil {
			return nil, err
		}
		if err := clf.Fit(loader.Take(X, f.Train), loader.TakeInts(y, f.Train)); err != nil {
			return nil, fmt.Errorf("train: %s fold %d fit: %w", spec.Name, fi, err)
		}

		valid, err := clf.PredictProba(loader.Take(X, f.Valid))
		if err != nil {
			return nil, fmt.Errorf("train: %s fold %d predict: %w", spec.Name, fi, err)
		}
		for j, i := range f.Valid {
			if written[i] {
				return nil, fmt.Errorf("%w: row %d", ErrOverlap, i)
			}
			written[i] = true
			res.OOF[i] = valid[j]
		}
		res.FoldScores = append(res.FoldScores, model.Accuracy(loader.TakeInts(y, f.Valid), valid, threshold))

		if len(Xtest) > 0 {
			test, err := clf.PredictProba(Xtest)
			if err != nil {
				return nil, fmt.Errorf("train: %s fold %d test: %w", spec.Name, fi, err)
			}
			for i, p := range test {
				res.Test[i] += p / k
			}
		}

		if imp, ok := clf.(model.Importancer); ok {
			if v := imp.FeatureImportances(); len(v) > 0 {
				if res.Importances == nil {
					res.Importances = make([]float64, len(v))
				}
				for j := range v {
					res.Importances[j] += v[j] / k
				}
			}
		}
	}

	for i, ok := range written {
		if !ok {
			return nil, fmt.Errorf("%w: row %d", ErrUncovered, i)
		}
	}
	res.Accuracy = model.Accuracy(y, res.OOF, threshold)
	res.Elapsed = time.Since(start)
	return res, nil
}

// Failure records a model that was skipped.
type Failure struct {
	Name string
	Err  error
}

// TrainAll cross-validates every spec in order. A failing model is logged
// and skipped; only context cancellation stops the loop.
func TrainAll(ctx context.Context, specs []Spec, X [][]float64, y []int, Xtest [][]float64, folds []loader.Fold, threshold float64, logger zerolog.Logger) ([]*Result, []Failure, error) {
	var (
		results  []*Result
		failures []Failure
	)
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return results, failures, err
		}
		log := logger.With().Str("model", spec.Name).Logger()
		log.Info().Int("folds", len(folds)).Msg("training")

		res, err := CrossValidate(spec, X, y, Xtest, folds, threshold)
		if err != nil {
			log.Warn().Err(err).Msg("model failed, skipping")
			failures = append(failures, Failure{Name: spec.Name, Err: err})
			continue
		}
		log.Info().
			Float64("accuracy", res.Accuracy).
			Floats64("fold_scores", res.FoldScores).
			Dur("elapsed", res.Elapsed).
			Msg("trained")
		results = append(results, res)
	}
	return results, failures, nil
}
