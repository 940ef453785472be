// Package config loads the experiment settings. Sources are applied in this
// order, later ones winning: defaults, persona.yaml, PERSONA_* environment
// variables, explicitly set command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
)

const (
	EnvPrefix   = "PERSONA_"
	DefaultFile = "persona.yaml"
)

var ErrInvalid = errors.New("config: invalid configuration")

type Log struct {
	Level  string `koanf:"level" json:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" json:"format" validate:"oneof=console json"`
}

type Optimizer struct {
	MaxIterations int `koanf:"max_iterations" json:"max_iterations" validate:"min=1"`
}

// Config is passed explicitly to every stage of a run.
type Config struct {
	TrainPath            string    `koanf:"train_path" json:"train_path" validate:"required"`
	TestPath             string    `koanf:"test_path" json:"test_path" validate:"required"`
	SampleSubmissionPath string    `koanf:"sample_submission_path" json:"sample_submission_path" validate:"required"`
	OutputDir            string    `koanf:"output_dir" json:"output_dir" validate:"required"`
	Folds                int       `koanf:"folds" json:"folds" validate:"min=2,max=20"`
	Seed                 int64     `koanf:"seed" json:"seed"`
	SelectK              int       `koanf:"select_k" json:"select_k" validate:"min=1"`
	TopK                 int       `koanf:"top_k" json:"top_k" validate:"min=1"`
	Threshold            float64   `koanf:"threshold" json:"threshold" validate:"gt=0,lt=1"`
	Optimizer            Optimizer `koanf:"optimizer" json:"optimizer"`
	Log                  Log       `koanf:"log" json:"log"`
	Plots                bool      `koanf:"plots" json:"plots"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() map[string]any {
	return map[string]any{
		"train_path":               "data/train.csv",
		"test_path":                "data/test.csv",
		"sample_submission_path":   "data/sample_submission.csv",
		"output_dir":               "output",
		"folds":                    5,
		"seed":                     42,
		"select_k":                 20,
		"top_k":                    5,
		"threshold":                0.5,
		"optimizer.max_iterations": 500,
		"log.level":                "info",
		"log.format":               "console",
		"plots":                    true,
	}
}

// Default returns the decoded defaults.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(fmt.Sprintf("config: defaults do not load: %v", err))
	}
	return cfg
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Paths returns the dataset locations.
func (c *Config) Paths() data.Paths {
	return data.Paths{Train: c.TrainPath, Test: c.TestPath, SampleSubmission: c.SampleSubmissionPath}
}

// Load builds a Config. An empty cfgFile falls back to persona.yaml when it
// exists. Only flags the user actually set override other sources; a flag
// named log-level maps to the log.level key.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			cfgFile = DefaultFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", cfgFile, err)
		}
	}

	// PERSONA_LOG__LEVEL -> log.level, PERSONA_SELECT_K -> select_k
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("config: load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKey turns a kebab-case flag name into its config key.
func flagKey(name string) string {
	switch name {
	case "log-level":
		return "log.level"
	case "log-format":
		return "log.format"
	case "max-iterations":
		return "optimizer.max_iterations"
	case "train":
		return "train_path"
	case "test":
		return "test_path"
	case "sample":
		return "sample_submission_path"
	case "output":
		return "output_dir"
	}
	return strings.ReplaceAll(name, "-", "_")
}
