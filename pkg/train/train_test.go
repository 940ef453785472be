package train

import (
	"context"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeekyRiolu/personality-prediction/pkg/loader"
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
	"github.com/GeekyRiolu/personality-prediction/pkg/pipeline"
)

// memorizer predicts 1 for rows it was trained on and 0 otherwise. Column 0
// carries the row number.
type memorizer struct{ seen map[float64]bool }

func (m *memorizer) Fit(X [][]float64, y []int) error {
	m.seen = map[float64]bool{}
	for _, row := range X {
		m.seen[row[0]] = true
	}
	return nil
}

func (m *memorizer) PredictProba(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if m.seen[row[0]] {
			out[i] = 1
		}
	}
	return out, nil
}

func rows(n int) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(3))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		y[i] = i % 2
		X[i] = []float64{float64(i), float64(y[i])*4 + rnd.Float64()}
	}
	return X, y
}

func TestCrossValidateNeverSeesValidationRows(t *testing.T) {
	X, y := rows(50)
	Xtest := [][]float64{{0, 0}, {-1, 0}}
	folds, err := loader.StratifiedKFold(y, 5, 42)
	require.NoError(t, err)

	spec := Spec{Name: "memo", Factory: func() model.Classifier { return &memorizer{} }}
	res, err := CrossValidate(spec, X, y, Xtest, folds, 0.5)
	require.NoError(t, err)

	for i, p := range res.OOF {
		assert.Equal(t, 0.0, p, "row %d leaked into its own fold model", i)
	}
	// row 0 is in the training set of four folds out of five
	assert.InDelta(t, 0.8, res.Test[0], 1e-12)
	assert.Equal(t, 0.0, res.Test[1])
	assert.Len(t, res.FoldScores, 5)
	assert.Nil(t, res.Importances)
}

func TestCrossValidateRejectsBadFolds(t *testing.T) {
	X, y := rows(6)
	spec := Spec{Name: "memo", Factory: func() model.Classifier { return &memorizer{} }}

	overlap := []loader.Fold{
		{Train: []int{3, 4, 5}, Valid: []int{0, 1, 2}},
		{Train: []int{0, 1, 5}, Valid: []int{2, 3, 4}},
	}
	_, err := CrossValidate(spec, X, y, nil, overlap, 0.5)
	assert.ErrorIs(t, err, ErrOverlap)

	gap := []loader.Fold{
		{Train: []int{3, 4}, Valid: []int{0, 1, 2}},
		{Train: []int{0, 1, 2}, Valid: []int{3, 4}},
	}
	_, err = CrossValidate(spec, X, y, nil, gap, 0.5)
	assert.ErrorIs(t, err, ErrUncovered)

	_, err = CrossValidate(spec, X, y, nil, nil, 0.5)
	assert.ErrorIs(t, err, ErrNoFolds)
}

func TestDefaultSpecsBuild(t *testing.T) {
	specs := DefaultSpecs(42)
	require.Len(t, specs, 7)
	names := map[string]bool{}
	for _, s := range specs {
		names[s.Name] = true
		clf, err := s.New()
		require.NoError(t, err, s.Name)
		_, isPipe := clf.(*pipeline.Pipeline)
		assert.Equal(t, s.Scaled, isPipe, s.Name)
	}
	assert.Len(t, names, 7)

	_, err := Spec{Name: "x", Kind: "nope"}.New()
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestCrossValidateRealModel(t *testing.T) {
	X, y := rows(80)
	for i := range X {
		X[i] = X[i][1:]
	}
	folds, err := loader.StratifiedKFold(y, 4, 1)
	require.NoError(t, err)

	spec := Spec{Name: "forest", Kind: RandomForest, Seed: 1, Params: Params{Trees: 10, MaxDepth: 3}}
	res, err := CrossValidate(spec, X, y, X[:5], folds, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Accuracy)
	assert.Len(t, res.Test, 5)
	assert.Len(t, res.Importances, 1)
	assert.InDelta(t, 1.0, res.Importances[0], 1e-9)
}

func TestTrainAllSkipsFailures(t *testing.T) {
	X, y := rows(40)
	folds, err := loader.StratifiedKFold(y, 4, 1)
	require.NoError(t, err)

	specs := []Spec{
		{Name: "broken", Kind: "nope"},
		{Name: "memo", Factory: func() model.Classifier { return &memorizer{} }},
	}
	results, failures, err := TrainAll(context.Background(), specs, X, y, nil, folds, 0.5, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "memo", results[0].Name)
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, ErrUnknownKind)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = TrainAll(ctx, specs, X, y, nil, folds, 0.5, zerolog.Nop())
	assert.ErrorIs(t, err, context.Canceled)
}
