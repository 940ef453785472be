package train

import (
	"fmt"

	"github.com/GeekyRiolu/personality-prediction/pkg/model"
	"github.com/GeekyRiolu/personality-prediction/pkg/pipeline"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
)

// Kind names an estimator family.
type Kind string

const (
	RandomForest       Kind = "random_forest"
	ExtraTrees         Kind = "extra_trees"
	GradientBoosting   Kind = "gradient_boosting"
	LogisticRegression Kind = "logistic_regression"
	SVM                Kind = "svm"
	MLP                Kind = "mlp"
	KNN                Kind = "knn"
)

// Params carries the hyperparameters; each Kind reads only the fields it needs.
type Params struct {
	Trees        int     `json:"trees,omitempty"`
	MaxDepth     int     `json:"max_depth,omitempty"`
	Rounds       int     `json:"rounds,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`
	L2           float64 `json:"l2,omitempty"`
	Epochs       int     `json:"epochs,omitempty"`
	BatchSize    int     `json:"batch_size,omitempty"`
	Hidden       int     `json:"hidden,omitempty"`
	Neighbors    int     `json:"neighbors,omitempty"`
	CalibFolds   int     `json:"calibration_folds,omitempty"`
}

// Spec describes one base model. New builds a fresh untrained instance, so a
// Spec can be reused across folds.
type Spec struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"kind"`
	Scaled     bool   `json:"scaled"`
	Calibrated bool   `json:"calibrated"`
	Seed       int64  `json:"seed"`
	Params     Params `json:"params"`

	// Factory, when set, replaces the Kind switch. Scaling still applies.
	Factory func() model.Classifier `json:"-"`
}

// DefaultSpecs returns the seven base models in training order.
func DefaultSpecs(seed int64) []Spec {
	return []Spec{
		{Name: "random_forest", Kind: RandomForest, Seed: seed, Params: Params{Trees: 200, MaxDepth: 10}},
		{Name: "extra_trees", Kind: ExtraTrees, Seed: seed, Params: Params{Trees: 200, MaxDepth: 10}},
		{Name: "gradient_boosting", Kind: GradientBoosting, Seed: seed, Params: Params{Rounds: 150, LearningRate: 0.05, MaxDepth: 3}},
		{Name: "logistic_regression", Kind: LogisticRegression, Scaled: true, Seed: seed,
			Params: Params{LearningRate: 0.1, L2: 1e-4, Epochs: 50, BatchSize: 256}},
		{Name: "svm", Kind: SVM, Scaled: true, Calibrated: true, Seed: seed,
			Params: Params{LearningRate: 0.05, L2: 1e-4, Epochs: 30, BatchSize: 256, CalibFolds: 3}},
		{Name: "mlp", Kind: MLP, Scaled: true, Seed: seed,
			Params: Params{Hidden: 32, LearningRate: 0.005, Epochs: 40, BatchSize: 128}},
		{Name: "knn", Kind: KNN, Scaled: true, Seed: seed, Params: Params{Neighbors: 15}},
	}
}

// New returns an untrained classifier for the spec.
func (s Spec) New() (model.Classifier, error) {
	clf, err := s.build()
	if err != nil {
		return nil, err
	}

	if s.Scaled {
		return pipeline.NewPipeline(clf, stats.NewStandardScaler()), nil
	}
	return clf, nil
}

func (s Spec) build() (model.Classifier, error) {
	if s.Factory != nil {
		return s.Factory(), nil
	}
	p := s.Params
	var clf model.Classifier
	switch s.Kind {
	case RandomForest, ExtraTrees:
		opts := []model.RandomForestOption{
			model.WithNEstimators(p.Trees),
			model.WithForestMaxDepth(p.MaxDepth),
			model.WithForestSeed(s.Seed),
		}
		if s.Kind == ExtraTrees {
			opts = append(opts, model.WithExtraTrees())
		}
		clf = model.NewRandomForest(opts...)
	case GradientBoosting:
		clf = model.NewGradientBoosting(p.Rounds, p.LearningRate, p.MaxDepth, s.Seed)
	case LogisticRegression:
		lr := model.NewLogisticRegression(p.LearningRate, p.Epochs, p.BatchSize, s.Seed)
		lr.L2 = p.L2
		clf = lr
	case SVM:
		if !s.Calibrated {
			return nil, fmt.Errorf("train: %s produces no probabilities without calibration", s.Name)
		}
		clf = model.NewPlattCalibrated(func() model.Scorer {
			return model.NewLinearSVM(p.L2, p.LearningRate, p.Epochs, p.BatchSize, s.Seed)
		}, p.CalibFolds, s.Seed)
	case MLP:
		clf = model.NewMLP(p.Hidden, p.LearningRate, p.Epochs, p.BatchSize, s.Seed)
	case KNN:
		clf = model.NewKNN(p.Neighbors)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	return clf, nil
}
