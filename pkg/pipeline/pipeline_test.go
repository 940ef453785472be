package pipeline

import (
	"errors"
	"testing"

	"github.com/GeekyRiolu/personality-prediction/pkg/model"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the rows it sees so the test can check scaling happened.
type recorder struct {
	fitX  [][]float64
	predX [][]float64
}

func (r *recorder) Fit(X [][]float64, y []int) error {
	r.fitX = X
	return nil
}

func (r *recorder) PredictProba(X [][]float64) ([]float64, error) {
	r.predX = X
	return make([]float64, len(X)), nil
}

func TestPipelineScalesWithTrainStatistics(t *testing.T) {
	rec := &recorder{}
	p := NewPipeline(rec, stats.NewStandardScaler())

	X := [][]float64{{1, 10}, {3, 10}}
	require.NoError(t, p.Fit(X, []int{0, 1}))
	assert.Equal(t, [][]float64{{-1, 0}, {1, 0}}, rec.fitX)

	_, err := p.PredictProba([][]float64{{5, 12}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 2}}, rec.predX)
	assert.Equal(t, [][]float64{{1, 10}, {3, 10}}, X)
}

type failing struct{}

func (failing) Fit([][]float64) error { return errors.New("boom") }
func (failing) Transform(X [][]float64) ([][]float64, error) {
	return X, nil
}

func TestPipelineStepError(t *testing.T) {
	p := NewPipeline(&recorder{}, failing{})
	assert.EqualError(t, p.Fit([][]float64{{1}}, []int{1}), "boom")
}

func TestPipelineImportances(t *testing.T) {
	assert.Nil(t, NewPipeline(&recorder{}).FeatureImportances())

	tree := model.NewDecisionTreeClassifier()
	p := NewPipeline(tree, stats.NewStandardScaler())
	require.NoError(t, p.Fit([][]float64{{0, 1}, {1, 1}, {2, 1}, {3, 1}}, []int{0, 0, 1, 1}))
	assert.Equal(t, []float64{1, 0}, p.FeatureImportances())
	assert.Same(t, tree, p.Final())
}

func TestPipelineBeforeFit(t *testing.T) {
	p := NewPipeline(&recorder{}, stats.NewStandardScaler())
	_, err := p.PredictProba([][]float64{{1}})
	assert.ErrorIs(t, err, stats.ErrNotFitted)
}
