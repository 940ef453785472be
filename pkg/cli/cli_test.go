package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(io.Discard)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "persona "+Version)
}

func TestSynthFeaturesRun(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "synth", "--dir", dataDir, "--rows", "120", "--test-rows", "30", "--missing", "0")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "train.csv"), strings.TrimSpace(out))

	paths := []string{
		"--train", filepath.Join(dataDir, "train.csv"),
		"--test", filepath.Join(dataDir, "test.csv"),
		"--sample", filepath.Join(dataDir, "sample_submission.csv"),
		"--output", outDir,
	}

	out, err = execute(t, append([]string{"features", "--select-k", "5"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Time_spent_Alone")
	assert.FileExists(t, filepath.Join(outDir, "feature_ranking.csv"))

	out, err = execute(t, append([]string{"run", "--folds", "3", "--plots=false", "--log-format", "json"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "simple_average")
	assert.Contains(t, out, "submissions in "+outDir)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	subs := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "submission_") {
			subs++
		}
	}
	assert.Equal(t, 11, subs)
	assert.NoFileExists(t, filepath.Join(outDir, "scores.png"))
}

func TestInvalidFlag(t *testing.T) {
	_, err := execute(t, "run", "--folds", "1", "--train", filepath.Join(t.TempDir(), "x.csv"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
