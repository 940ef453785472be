package pipeline

import (
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
)

// Transformer is a fit/transform preprocessing step.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) ([][]float64, error)
}

// Pipeline chains transformers in front of a final classifier. Steps are fit
// on the training rows only and replayed on every later PredictProba call.
type Pipeline struct {
	steps []Transformer
	final model.Classifier
}

func NewPipeline(final model.Classifier, steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps, final: final}
}

func (p *Pipeline) Fit(X [][]float64, y []int) error {
	for _, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return err
		}
		var err error
		if X, err = step.Transform(X); err != nil {
			return err
		}
	}
	return p.final.Fit(X, y)
}

func (p *Pipeline) Transform(X [][]float64) ([][]float64, error) {
	for _, step := range p.steps {
		var err error
		if X, err = step.Transform(X); err != nil {
			return nil, err
		}
	}
	return X, nil
}

func (p *Pipeline) PredictProba(X [][]float64) ([]float64, error) {
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.final.PredictProba(Xt)
}

// FeatureImportances forwards to the final classifier, or returns nil when
// it has none.
func (p *Pipeline) FeatureImportances() []float64 {
	if imp, ok := p.final.(model.Importancer); ok {
		return imp.FeatureImportances()
	}
	return nil
}

// Final returns the wrapped classifier.
func (p *Pipeline) Final() model.Classifier { return p.final }
