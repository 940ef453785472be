package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/ensemble"
	"github.com/GeekyRiolu/personality-prediction/pkg/selection"
	"github.com/GeekyRiolu/personality-prediction/pkg/train"
)

func sampleEntries() []Entry {
	return []Entry{
		FromResult(&train.Result{Name: "knn", FoldScores: []float64{0.9, 0.8}, Accuracy: 0.85, Test: []float64{0.2, 0.7, 0.5}}),
		FromBlend(&ensemble.Blend{Name: "weighted_average", FoldScores: []float64{0.9, 0.9}, Accuracy: 0.875, Scored: false,
			Members: []string{"knn"}, Weights: []float64{1}, Test: []float64{0.1, 0.1, 0.9}}),
		FromResult(&train.Result{Name: "mlp", FoldScores: []float64{0.95, 0.95}, Accuracy: 0.95, Test: []float64{0.6, 0.6, 0.6}}),
		FromBlend(&ensemble.Blend{Name: "simple_average", FoldScores: []float64{0.85, 0.85}, Scored: true, Test: []float64{0, 1, 0}}),
	}
}

func TestEntryScores(t *testing.T) {
	e := sampleEntries()
	assert.InDelta(t, 0.85, e[0].Mean, 1e-12)
	assert.InDelta(t, 0.05, e[0].Std, 1e-12)
	assert.Equal(t, Base, e[0].Category)
	assert.Equal(t, Ensemble, e[1].Category)
	assert.True(t, math.IsNaN(e[1].Mean))
	assert.True(t, math.IsNaN(e[1].Std))
	assert.True(t, math.IsNaN(e[1].OOF))
	assert.Equal(t, map[string]float64{"knn": 1}, e[1].Weights)
}

func TestRank(t *testing.T) {
	ranked := Rank(sampleEntries())
	var names []string
	for _, e := range ranked {
		names = append(names, e.Name)
	}
	// knn and simple_average tie at 0.85 and keep input order
	assert.Equal(t, []string{"mlp", "knn", "simple_average", "weighted_average"}, names)
}

func TestSubmissionName(t *testing.T) {
	e := sampleEntries()
	assert.Equal(t, "submission_knn_0.85000.csv", SubmissionName(e[0]))
	assert.Equal(t, "submission_weighted_average_noscore.csv", SubmissionName(e[1]))
	assert.Equal(t, "submission_a_b_0.50000.csv", SubmissionName(Entry{Name: "a/b", Scored: true, Mean: 0.5}))
}

func TestWriteSubmission(t *testing.T) {
	dir := t.TempDir()
	enc := &data.LabelEncoder{Classes: [2]string{"Extrovert", "Introvert"}}
	ids := []string{"10", "11", "12"}

	path, err := WriteSubmission(dir, sampleEntries()[0], ids, []string{"id", "Personality"}, enc, 0.5)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(ids)+1)
	assert.Equal(t, []string{"id", "Personality"}, rows[0])
	assert.Equal(t, []string{"10", "Extrovert"}, rows[1])
	assert.Equal(t, []string{"11", "Introvert"}, rows[2])
	assert.Equal(t, []string{"12", "Introvert"}, rows[3])

	_, err = WriteSubmission(dir, sampleEntries()[0], ids[:2], []string{"id", "Personality"}, enc, 0.5)
	assert.ErrorIs(t, err, ErrRowCount)
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	ranked := Rank(sampleEntries())
	require.NoError(t, WriteResults(dir, Results{RunID: "run-1", Entries: ranked, Best: ranked[0].Name}))

	f, err := os.Open(filepath.Join(dir, "results.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"method", "mean_accuracy", "std_accuracy", "type"}, rows[0])
	assert.Equal(t, []string{"mlp", "0.950000", "0.000000", "base"}, rows[1])
	assert.Equal(t, []string{"weighted_average", "", "", "ensemble"}, rows[4])

	raw, err := os.ReadFile(filepath.Join(dir, "results.json"))
	require.NoError(t, err)
	var decoded struct {
		RunID   string `json:"run_id"`
		Best    string `json:"best"`
		Results []struct {
			Name   string  `json:"name"`
			Scored bool    `json:"scored"`
			OOF    float64 `json:"oof_accuracy"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, "mlp", decoded.Best)
	assert.Len(t, decoded.Results, 4)
	assert.False(t, decoded.Results[3].Scored)
	assert.Equal(t, 0.0, decoded.Results[3].OOF)
	assert.NotContains(t, string(raw), "0.875")
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, Rank(sampleEntries()))
	out := buf.String()
	assert.Contains(t, out, "mlp")
	assert.Contains(t, out, "0.95000")
	assert.Contains(t, out, "weighted_average")
	assert.NotContains(t, out, "0.87500")
}

func TestFeatureRankingAndPlots(t *testing.T) {
	dir := t.TempDir()
	ranking := []selection.Ranked{
		{Name: "a", Importance: 0.7, Selected: true},
		{Name: "b", Importance: 0.3},
	}
	require.NoError(t, WriteFeatureRanking(dir, ranking))
	raw, err := os.ReadFile(filepath.Join(dir, "feature_ranking.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "a,0.700000,0.000000,0.000000,true")

	path, err := PlotImportances(dir, ranking, 0)
	require.NoError(t, err)
	assert.FileExists(t, path)

	path, err = PlotScores(dir, Rank(sampleEntries()))
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = PlotScores(dir, nil)
	assert.Error(t, err)
}
