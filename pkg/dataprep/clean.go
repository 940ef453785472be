package dataprep

import (
	"fmt"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
)

// Prepared holds the cleaned train and test feature frames.
type Prepared struct {
	Train   *data.Frame
	Test    *data.Frame
	Imputer *MedianImputer

	// Missing counts cells that were imputed, per column, across both frames.
	Missing map[string]int
}

// Prepare encodes the binary columns of both frames, then fills missing
// values with medians fitted on the training frame only. Only schema
// feature columns are kept.
func Prepare(train, test *data.Frame, schema data.Schema) (*Prepared, error) {
	cols := schema.Features()
	tr, err := train.Select(cols)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	te, err := test.Select(cols)
	if err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}

	if tr, err = EncodeBinary(tr, schema.Binary); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	if te, err = EncodeBinary(te, schema.Binary); err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}
	for _, c := range cols {
		if !tr.IsNumeric(c) || !te.IsNumeric(c) {
			return nil, fmt.Errorf("%w: %s", data.ErrNotNumeric, c)
		}
	}

	missing := tr.MissingCounts()
	for c, n := range te.MissingCounts() {
		missing[c] += n
	}

	imp := &MedianImputer{}
	if err := imp.Fit(tr, cols); err != nil {
		return nil, err
	}
	if tr, err = imp.Transform(tr); err != nil {
		return nil, err
	}
	if te, err = imp.Transform(te); err != nil {
		return nil, err
	}
	return &Prepared{Train: tr, Test: te, Imputer: imp, Missing: missing}, nil
}
