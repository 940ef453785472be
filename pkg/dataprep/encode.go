package dataprep

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
)

var ErrUnknownCategory = errors.New("dataprep: unknown category")

// BinaryMap is the fixed encoding for Yes/No columns.
var BinaryMap = map[string]float64{
	"yes": 1, "no": 0,
	"true": 1, "false": 0,
	"1": 1, "0": 0,
}

// EncodeBinary returns a copy of f where each of cols is mapped through
// BinaryMap (case-insensitive). Missing cells become NaN; columns that are
// already numeric are copied unchanged.
func EncodeBinary(f *data.Frame, cols []string) (*data.Frame, error) {
	out := f.Clone()
	for _, c := range cols {
		if out.IsNumeric(c) {
			continue
		}
		raw, err := out.Text(c)
		if err != nil {
			return nil, err
		}
		enc := make([]float64, len(raw))
		for i, v := range raw {
			if v == "" {
				enc[i] = math.NaN()
				continue
			}
			code, ok := BinaryMap[strings.ToLower(v)]
			if !ok {
				return nil, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, c, v)
			}
			enc[i] = code
		}
		if err := out.SetColumn(c, enc); err != nil {
			return nil, err
		}
	}
	return out, nil
}
