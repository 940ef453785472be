// Package cli provides the persona command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/GeekyRiolu/personality-prediction/pkg/config"
	"github.com/GeekyRiolu/personality-prediction/pkg/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// app is the state shared by the subcommands after flags are parsed.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
}

// NewRootCmd creates the root command. Log lines go to stderr.
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Stderr)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "persona",
		Short: "Introvert/Extrovert classification experiments",
		Long: `persona trains seven cross-validated classifiers on the Personality
competition data, blends them four ways and writes one submission per method.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOut})
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./persona.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("log-format", "console", "log format (console|json)")

	_ = root.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"console", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newFeaturesCmd(a))
	root.AddCommand(newSynthCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "persona %s (%s)\n", Version, GitCommit)
		},
	}
}

// dataFlags registers the flags that override dataset and output paths.
func dataFlags(cmd *cobra.Command) {
	cmd.Flags().String("train", "", "training CSV")
	cmd.Flags().String("test", "", "test CSV")
	cmd.Flags().String("sample", "", "sample submission CSV")
	cmd.Flags().String("output", "", "output directory")
	cmd.Flags().Int64("seed", 42, "random seed")
	cmd.Flags().Int("select-k", 20, "number of features to keep")
}
