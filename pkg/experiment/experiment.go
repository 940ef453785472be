// Package experiment wires the stages of a run together: load, prepare,
// engineer, select, cross-validate, blend and report.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/GeekyRiolu/personality-prediction/pkg/config"
	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/dataprep"
	"github.com/GeekyRiolu/personality-prediction/pkg/ensemble"
	"github.com/GeekyRiolu/personality-prediction/pkg/loader"
	"github.com/GeekyRiolu/personality-prediction/pkg/report"
	"github.com/GeekyRiolu/personality-prediction/pkg/selection"
	"github.com/GeekyRiolu/personality-prediction/pkg/train"
)

var ErrAllModelsFailed = errors.New("experiment: every base model failed")

// Summary is what a finished run hands back to the caller.
type Summary struct {
	RunID       string
	Entries     []report.Entry // ranked
	Selected    []string
	Ranking     []selection.Ranked
	Weights     map[string]float64
	Failures    []train.Failure
	Submissions []string
	Elapsed     time.Duration
}

// Option adjusts a run.
type Option func(*runner)

// WithSpecs replaces the default base models.
func WithSpecs(specs []train.Spec) Option { return func(r *runner) { r.specs = specs } }

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option { return func(r *runner) { r.runID = id } }

type runner struct {
	cfg   *config.Config
	log   zerolog.Logger
	specs []train.Spec
	runID string
}

// Features is the engineered and selected view of a dataset.
type Features struct {
	Dataset *data.Dataset
	Train   *data.Frame // selected columns only
	Test    *data.Frame
	Result  *selection.Result
	Missing map[string]int
}

// BuildFeatures loads the data and runs preparation, engineering and
// selection.
func BuildFeatures(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Features, error) {
	start := time.Now()
	ds, err := data.LoadDataset(cfg.Paths(), data.PersonalitySchema)
	if err != nil {
		return nil, fmt.Errorf("experiment: load: %w", err)
	}
	log.Info().Int("train_rows", ds.Train.Len()).Int("test_rows", ds.Test.Len()).
		Strs("classes", ds.Encoder.Classes[:]).Msg("data loaded")

	prep, err := dataprep.Prepare(ds.Train, ds.Test, data.PersonalitySchema)
	if err != nil {
		return nil, fmt.Errorf("experiment: prepare: %w", err)
	}
	for col, n := range prep.Missing {
		if n > 0 {
			log.Debug().Str("column", col).Int("missing", n).Float64("median", prep.Imputer.Medians[col]).Msg("imputed")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engTrain, err := dataprep.Engineer(prep.Train)
	if err != nil {
		return nil, fmt.Errorf("experiment: engineer train: %w", err)
	}
	engTest, err := dataprep.Engineer(prep.Test)
	if err != nil {
		return nil, fmt.Errorf("experiment: engineer test: %w", err)
	}
	log.Info().Int("features", len(engTrain.NumericNames())).Msg("features engineered")

	sel, err := selection.Select(engTrain, ds.Target, cfg.SelectK, selection.DefaultOptions(cfg.Seed))
	if err != nil {
		return nil, fmt.Errorf("experiment: select: %w", err)
	}
	tr, err := sel.Apply(engTrain)
	if err != nil {
		return nil, err
	}
	te, err := sel.Apply(engTest)
	if err != nil {
		return nil, err
	}
	log.Info().Strs("selected", sel.Selected).Dur("elapsed", time.Since(start)).Msg("features selected")

	return &Features{Dataset: ds, Train: tr, Test: te, Result: sel, Missing: prep.Missing}, nil
}

// Run executes a full experiment and writes its outputs to cfg.OutputDir.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Summary, error) {
	r := &runner{cfg: cfg, specs: train.DefaultSpecs(cfg.Seed)}
	for _, o := range opts {
		o(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	r.log = logger.With().Str("run_id", r.runID).Logger()
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	cfg := r.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("experiment: output dir: %w", err)
	}

	feats, err := BuildFeatures(ctx, cfg, r.log)
	if err != nil {
		return nil, err
	}
	ds := feats.Dataset
	X, err := feats.Train.Matrix(feats.Result.Selected)
	if err != nil {
		return nil, err
	}
	Xtest, err := feats.Test.Matrix(feats.Result.Selected)
	if err != nil {
		return nil, err
	}

	folds, err := loader.StratifiedKFold(ds.Target, cfg.Folds, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("experiment: folds: %w", err)
	}
	results, failures, err := train.TrainAll(ctx, r.specs, X, ds.Target, Xtest, folds, cfg.Threshold, r.log)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrAllModelsFailed
	}

	ens := &ensemble.Ensembler{
		Y:             ds.Target,
		Folds:         folds,
		Threshold:     cfg.Threshold,
		TopK:          cfg.TopK,
		MaxIterations: cfg.Optimizer.MaxIterations,
		Seed:          cfg.Seed,
		Logger:        r.log,
	}
	blends, err := ens.All(results)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := make([]report.Entry, 0, len(results)+len(blends))
	for _, res := range results {
		entries = append(entries, report.FromResult(res))
	}
	var weights map[string]float64
	for _, b := range blends {
		e := report.FromBlend(b)
		if b.Name == ensemble.WeightedName {
			weights = e.Weights
		}
		entries = append(entries, e)
	}
	ranked := report.Rank(entries)

	sum := &Summary{
		RunID:    r.runID,
		Entries:  ranked,
		Selected: feats.Result.Selected,
		Ranking:  feats.Result.Ranking,
		Weights:  weights,
		Failures: failures,
	}
	if err := r.write(sum, ds); err != nil {
		return nil, err
	}
	sum.Elapsed = time.Since(start)
	r.log.Info().Str("best", ranked[0].Name).Float64("mean_accuracy", ranked[0].Mean).
		Dur("elapsed", sum.Elapsed).Msg("run finished")
	return sum, nil
}

func (r *runner) write(sum *Summary, ds *data.Dataset) error {
	cfg := r.cfg
	for _, e := range sum.Entries {
		path, err := report.WriteSubmission(cfg.OutputDir, e, ds.Test.IDs, ds.SubmissionHeader, ds.Encoder, cfg.Threshold)
		if err != nil {
			return err
		}
		sum.Submissions = append(sum.Submissions, path)
	}

	failures := map[string]string{}
	for _, f := range sum.Failures {
		failures[f.Name] = f.Err.Error()
	}
	if err := report.WriteResults(cfg.OutputDir, report.Results{
		RunID:    sum.RunID,
		Created:  time.Now().UTC(),
		Config:   cfg,
		Rows:     len(ds.Target),
		Selected: sum.Selected,
		Entries:  sum.Entries,
		Failures: failures,
		Weights:  sum.Weights,
		Best:     sum.Entries[0].Name,
	}); err != nil {
		return err
	}
	if err := report.WriteFeatureRanking(cfg.OutputDir, sum.Ranking); err != nil {
		return err
	}

	if cfg.Plots {
		if _, err := report.PlotScores(cfg.OutputDir, sum.Entries); err != nil {
			r.log.Warn().Err(err).Msg("score chart skipped")
		}
		if _, err := report.PlotImportances(cfg.OutputDir, sum.Ranking, 0); err != nil {
			r.log.Warn().Err(err).Msg("importance chart skipped")
		}
	}
	r.log.Info().Str("dir", cfg.OutputDir).Int("submissions", len(sum.Submissions)).Msg("outputs written")
	return nil
}
