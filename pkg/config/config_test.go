package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "data/train.csv", cfg.TrainPath)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 20, cfg.SelectK)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 0.5, cfg.Threshold)
	assert.Equal(t, 500, cfg.Optimizer.MaxIterations)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Plots)
	assert.Equal(t, "data/sample_submission.csv", cfg.Paths().SampleSubmission)
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yml := "folds: 3\nseed: 7\nlog:\n  level: debug\noutput_dir: from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte(yml), 0o644))
	t.Setenv("PERSONA_SEED", "9")
	t.Setenv("PERSONA_LOG__FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("folds", 5, "")
	flags.String("output", "output", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--output", "from-flag"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Folds, "unset flag must not override the file")
	assert.Equal(t, int64(9), cfg.Seed, "env overrides the file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "from-flag", cfg.OutputDir)
}

func TestValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	cases := map[string]string{
		"folds":     "PERSONA_FOLDS=1",
		"threshold": "PERSONA_THRESHOLD=1.5",
		"level":     "PERSONA_LOG__LEVEL=loud",
		"select_k":  "PERSONA_SELECT_K=0",
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			k, v, _ := strings.Cut(kv, "=")
			t.Setenv(k, v)
			_, err := Load("", nil)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}
