package data

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotBinary    = errors.New("data: target must have exactly two classes")
	ErrUnknownLabel = errors.New("data: unknown label")
)

// LabelEncoder maps the two class names to 0 and 1. Classes are ordered
// lexicographically so the mapping does not depend on row order.
type LabelEncoder struct {
	Classes [2]string
}

// FitLabelEncoder builds the mapping from the observed labels.
func FitLabelEncoder(labels []string) (*LabelEncoder, error) {
	seen := map[string]struct{}{}
	for _, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("%w: empty target value", ErrUnknownLabel)
		}
		seen[l] = struct{}{}
	}
	if len(seen) != 2 {
		return nil, fmt.Errorf("%w: found %d", ErrNotBinary, len(seen))
	}
	classes := make([]string, 0, 2)
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return &LabelEncoder{Classes: [2]string{classes[0], classes[1]}}, nil
}

func (e *LabelEncoder) Encode(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		switch l {
		case e.Classes[0]:
			out[i] = 0
		case e.Classes[1]:
			out[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, l)
		}
	}
	return out, nil
}

// Decode maps 0/1 predictions back to class names. Any other value is an
// error.
func (e *LabelEncoder) Decode(y []int) ([]string, error) {
	out := make([]string, len(y))
	for i, v := range y {
		if v != 0 && v != 1 {
			return nil, fmt.Errorf("%w: code %d at row %d", ErrUnknownLabel, v, i)
		}
		out[i] = e.Classes[v]
	}
	return out, nil
}
