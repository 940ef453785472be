package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/GeekyRiolu/personality-prediction/pkg/data"
	"github.com/GeekyRiolu/personality-prediction/pkg/experiment"
	"github.com/GeekyRiolu/personality-prediction/pkg/report"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full experiment and write submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := experiment.Run(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report.RenderTable(out, sum.Entries)
			for _, f := range sum.Failures {
				fmt.Fprintf(out, "skipped %s: %v\n", f.Name, f.Err)
			}
			fmt.Fprintf(out, "run %s: %d submissions in %s (%s)\n", sum.RunID, len(sum.Submissions), a.cfg.OutputDir, sum.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	dataFlags(cmd)
	cmd.Flags().Int("folds", 5, "number of cross-validation folds")
	cmd.Flags().Int("top-k", 5, "models in the top-k blend")
	cmd.Flags().Float64("threshold", 0.5, "probability threshold for the positive class")
	cmd.Flags().Int("max-iterations", 500, "weight optimiser iteration limit")
	cmd.Flags().Bool("plots", true, "write PNG charts")
	return cmd
}

func newFeaturesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Engineer and rank features without training",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feats, err := experiment.BuildFeatures(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
				return err
			}
			if err := report.WriteFeatureRanking(a.cfg.OutputDir, feats.Result.Ranking); err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Feature", "Importance", "Mutual Info", "|Corr|", "Selected"})
			for i, r := range feats.Result.Ranking {
				sel := ""
				if r.Selected {
					sel = "yes"
				}
				t.AppendRow(table.Row{i + 1, r.Name,
					fmt.Sprintf("%.4f", r.Importance), fmt.Sprintf("%.4f", r.MutualInfo), fmt.Sprintf("%.4f", r.Correlation), sel})
			}
			t.Render()
			return nil
		},
	}
	dataFlags(cmd)
	return cmd
}

func newSynthCmd(a *app) *cobra.Command {
	var (
		dir     string
		rows    int
		test    int
		missing float64
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic train/test/sample-submission triplet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			paths, err := data.Synthetic(rows, test, missing, a.cfg.Seed).Write(dir)
			if err != nil {
				return err
			}
			a.log.Info().Str("train", paths.Train).Str("test", paths.Test).
				Str("sample", paths.SampleSubmission).Int("rows", rows).Msg("synthetic data written")
			fmt.Fprintln(cmd.OutOrStdout(), paths.Train)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "data", "directory to write into")
	cmd.Flags().IntVar(&rows, "rows", 1000, "training rows")
	cmd.Flags().IntVar(&test, "test-rows", 300, "test rows")
	cmd.Flags().Float64Var(&missing, "missing", 0.02, "fraction of cells left blank")
	cmd.Flags().Int64("seed", 42, "random seed")
	return cmd
}
