package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/model"
	"github.com/GeekyRiolu/personality-prediction/pkg/selection"
)

var ErrRowCount = errors.New("report: prediction count does not match ids")

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SubmissionName returns submission_<name>_<score>.csv, with "noscore" for
// unscored entries.
func SubmissionName(e Entry) string {
	s := "noscore"
	if e.Scored {
		s = fmt.Sprintf("%.5f", e.Mean)
	}
	return fmt.Sprintf("submission_%s_%s.csv", unsafeName.ReplaceAllString(e.Name, "_"), s)
}

// WriteSubmission thresholds the entry's test probabilities, decodes them to
// class names and writes one row per id under header. It returns the path.
func WriteSubmission(dir string, e Entry, ids, header []string, enc *data.LabelEncoder, threshold float64) (string, error) {
	if len(e.Test) != len(ids) {
		return "", fmt.Errorf("%w: %s has %d predictions, %d ids", ErrRowCount, e.Name, len(e.Test), len(ids))
	}
	labels, err := enc.Decode(model.BinaryPredFromProba(e.Test, threshold))
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(ids)+1)
	rows = append(rows, header)
	for i, id := range ids {
		rows = append(rows, []string{id, labels[i]})
	}
	path := filepath.Join(dir, SubmissionName(e))
	return path, writeCSV(path, rows)
}

// WriteResultsCSV writes results.csv with one line per ranked entry.
func WriteResultsCSV(dir string, entries []Entry) error {
	rows := [][]string{{"method", "mean_accuracy", "std_accuracy", "type"}}
	for _, e := range entries {
		rows = append(rows, []string{e.Name, csvFloat(e, e.Mean), csvFloat(e, e.Std), string(e.Category)})
	}
	return writeCSV(filepath.Join(dir, "results.csv"), rows)
}

// Results is the JSON summary of a run.
type Results struct {
	RunID    string             `json:"run_id"`
	Created  time.Time          `json:"created"`
	Config   any                `json:"config"`
	Rows     int                `json:"train_rows"`
	Selected []string           `json:"selected_features"`
	Entries  []Entry            `json:"results"`
	Failures map[string]string  `json:"failures,omitempty"`
	Weights  map[string]float64 `json:"weights,omitempty"`
	Best     string             `json:"best"`
}

// WriteResults writes results.csv and results.json.
func WriteResults(dir string, res Results) error {
	if err := WriteResultsCSV(dir, res.Entries); err != nil {
		return err
	}
	// NaN is not valid JSON; unscored values are dropped to zero with scored=false
	clean := append([]Entry(nil), res.Entries...)
	for i := range clean {
		if !clean[i].Scored {
			clean[i].Mean, clean[i].Std, clean[i].OOF = 0, 0, 0
		}
	}
	res.Entries = clean
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("report: encode results: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "results.json"), b, 0o644)
}

// WriteFeatureRanking writes feature_ranking.csv in ranking order.
func WriteFeatureRanking(dir string, ranking []selection.Ranked) error {
	rows := [][]string{{"feature", "importance", "mutual_info", "abs_correlation", "selected"}}
	for _, r := range ranking {
		rows = append(rows, []string{
			r.Name,
			strconv.FormatFloat(r.Importance, 'f', 6, 64),
			strconv.FormatFloat(r.MutualInfo, 'f', 6, 64),
			strconv.FormatFloat(r.Correlation, 'f', 6, 64),
			strconv.FormatBool(r.Selected),
		})
	}
	return writeCSV(filepath.Join(dir, "feature_ranking.csv"), rows)
}

func csvFloat(e Entry, v float64) string {
	if !e.Scored {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return f.Close()
}
