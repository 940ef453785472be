// Package report ranks the trained models and blends and writes the run's
// outputs: submissions, results tables, rankings and charts.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/GeekyRiolu/personality-prediction/pkg/ensemble"
	"github.com/GeekyRiolu/personality-prediction/pkg/stats"
	"github.com/GeekyRiolu/personality-prediction/pkg/train"
)

type Category string

const (
	Base     Category = "base"
	Ensemble Category = "ensemble"
)

// Entry is one scored row of the results table.
type Entry struct {
	Name     string             `json:"name"`
	Category Category           `json:"type"`
	Mean     float64            `json:"mean_accuracy"`
	Std      float64            `json:"std_accuracy"`
	OOF      float64            `json:"oof_accuracy"`
	Scored   bool               `json:"scored"`
	Weights  map[string]float64 `json:"weights,omitempty"`
	Test     []float64          `json:"-"`
}

// FromResult scores a base model by its fold accuracies.
func FromResult(r *train.Result) Entry {
	mean, std := meanStd(r.FoldScores)
	return Entry{Name: r.Name, Category: Base, Mean: mean, Std: std, OOF: r.Accuracy, Scored: true, Test: r.Test}
}

// FromBlend scores a blend by its per-fold accuracies.
func FromBlend(b *ensemble.Blend) Entry {
	mean, std := meanStd(b.FoldScores)
	e := Entry{Name: b.Name, Category: Ensemble, Mean: mean, Std: std, OOF: b.Accuracy, Scored: b.Scored, Test: b.Test}
	if b.Weights != nil {
		e.Weights = make(map[string]float64, len(b.Weights))
		for i, m := range b.Members {
			e.Weights[m] = b.Weights[i]
		}
	}
	if !b.Scored {
		e.Mean, e.Std, e.OOF = math.NaN(), math.NaN(), math.NaN()
	}
	return e
}

// meanStd returns the mean and population standard deviation.
func meanStd(x []float64) (float64, float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return stats.Mean(x), stats.Std(x)
}

// Rank sorts entries by mean accuracy, best first. Unscored entries go last;
// equal scores keep their input order.
func Rank(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Scored != out[b].Scored {
			return out[a].Scored
		}
		if !out[a].Scored {
			return false
		}
		return out[a].Mean > out[b].Mean
	})
	return out
}

// RenderTable writes the ranked entries as a console table.
func RenderTable(w io.Writer, entries []Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Method", "Type", "Mean Acc", "Std", "OOF Acc"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Name, e.Category, score(e, e.Mean), score(e, e.Std), score(e, e.OOF)})
	}
	t.Render()
}

func score(e Entry, v float64) string {
	if !e.Scored || math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.5f", v)
}
