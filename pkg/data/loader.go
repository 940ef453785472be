package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	ErrNoHeader    = errors.New("data: file has no header row")
	ErrRowMismatch = errors.New("data: row count mismatch")
)

// IsMissing reports whether a raw cell should be treated as a missing value.
func IsMissing(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}

// ReadFrame reads a delimited file with a header row. idCol names the
// identifier column. Columns whose non-missing cells all parse as numbers
// become numeric; the rest are kept as strings.
func ReadFrame(path, idCol string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := DecodeFrame(bufio.NewReader(file), idCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// DecodeFrame is ReadFrame over an arbitrary reader.
func DecodeFrame(r io.Reader, idCol string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idIdx := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == idCol {
			idIdx = i
		}
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, idCol)
	}

	var ids []string
	raw := make([][]string, len(header))
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for j := range header {
			raw[j] = append(raw[j], strings.TrimSpace(rec[j]))
		}
		ids = append(ids, strings.TrimSpace(rec[idIdx]))
	}

	f := NewFrame(idCol, ids)
	for j, name := range header {
		if j == idIdx {
			continue
		}
		if nums, ok := parseNumeric(raw[j]); ok {
			if err := f.SetColumn(name, nums); err != nil {
				return nil, err
			}
			continue
		}
		col := raw[j]
		for i, v := range col {
			if IsMissing(v) {
				col[i] = ""
			}
		}
		if err := f.SetText(name, col); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parseNumeric(cells []string) ([]float64, bool) {
	out := make([]float64, len(cells))
	seen := false
	for i, s := range cells {
		if IsMissing(s) {
			out[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
		seen = true
	}
	return out, seen
}

// WriteCSV writes the identifier column followed by every column of f.
func WriteCSV(path string, f *Frame) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	names := f.Names()
	if err := w.Write(append([]string{f.IDName}, names...)); err != nil {
		return err
	}
	rec := make([]string, len(names)+1)
	for i, id := range f.IDs {
		rec[0] = id
		for j, n := range names {
			if f.IsNumeric(n) {
				v := f.numeric[n][i]
				if math.IsNaN(v) {
					rec[j+1] = ""
				} else {
					rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
				}
			} else {
				rec[j+1] = f.text[n][i]
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Paths locates the three competition files.
type Paths struct {
	Train            string
	Test             string
	SampleSubmission string
}

// Dataset is the loaded competition data with the target split off and encoded.
type Dataset struct {
	Train   *Frame
	Test    *Frame
	Target  []int
	Encoder *LabelEncoder

	// SubmissionHeader holds the identifier and label column names from the
	// sample submission, in file order.
	SubmissionHeader []string
}

// LoadDataset reads train, test and sample submission files, separates the
// target from the training features and label-encodes it.
func LoadDataset(p Paths, schema Schema) (*Dataset, error) {
	train, err := ReadFrame(p.Train, schema.ID)
	if err != nil {
		return nil, err
	}
	test, err := ReadFrame(p.Test, schema.ID)
	if err != nil {
		return nil, err
	}
	sample, err := ReadFrame(p.SampleSubmission, schema.ID)
	if err != nil {
		return nil, err
	}

	for _, c := range schema.Features() {
		if !train.Has(c) {
			return nil, fmt.Errorf("train: %w: %s", ErrMissingColumn, c)
		}
		if !test.Has(c) {
			return nil, fmt.Errorf("test: %w: %s", ErrMissingColumn, c)
		}
	}
	if sample.Len() != test.Len() {
		return nil, fmt.Errorf("%w: sample submission has %d rows, test has %d", ErrRowMismatch, sample.Len(), test.Len())
	}
	header := append([]string{schema.ID}, sample.Names()...)
	if len(header) != 2 {
		return nil, fmt.Errorf("data: sample submission must have 2 columns, got %d", len(header))
	}

	labels, err := train.Text(schema.Target)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	enc, err := FitLabelEncoder(labels)
	if err != nil {
		return nil, err
	}
	y, err := enc.Encode(labels)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Train:            train.Drop(schema.Target),
		Test:             test.Drop(schema.Target),
		Target:           y,
		Encoder:          enc,
		SubmissionHeader: header,
	}, nil
}
