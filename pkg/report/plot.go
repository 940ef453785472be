package report

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/GeekyRiolu/personality-prediction/pkg/selection"
)

var (
	baseColor     = color.RGBA{R: 50, G: 110, B: 200, A: 255}
	ensembleColor = color.RGBA{R: 230, G: 120, B: 40, A: 255}
)

// PlotScores draws the scored entries' mean accuracy as a horizontal bar
// chart in scores.png.
func PlotScores(dir string, entries []Entry) (string, error) {
	p := plot.New()
	p.Title.Text = "Cross-validated accuracy"
	p.X.Label.Text = "Mean fold accuracy"

	var names []string
	var base, blend plotter.Values
	for _, e := range entries {
		if !e.Scored {
			continue
		}
		// one bar per slot; the other category stays at zero height
		names = append(names, e.Name)
		if e.Category == Base {
			base = append(base, e.Mean)
			blend = append(blend, 0)
		} else {
			base = append(base, 0)
			blend = append(blend, e.Mean)
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("report: nothing to plot")
	}

	width := vg.Points(12)
	for _, series := range []struct {
		vals plotter.Values
		c    color.Color
		name string
	}{{base, baseColor, "base"}, {blend, ensembleColor, "ensemble"}} {
		bars, err := plotter.NewBarChart(series.vals, width)
		if err != nil {
			return "", err
		}
		bars.Horizontal = true
		bars.Color = series.c
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(series.name, bars)
	}
	p.NominalY(names...)
	p.Legend.Top = true

	path := filepath.Join(dir, "scores.png")
	if err := p.Save(8*vg.Inch, vg.Length(len(names))*0.35*vg.Inch+vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}

// PlotImportances draws the forest importance of the first n ranked features
// in feature_importance.png.
func PlotImportances(dir string, ranking []selection.Ranked, n int) (string, error) {
	if n <= 0 || n > len(ranking) {
		n = len(ranking)
	}
	if n == 0 {
		return "", fmt.Errorf("report: nothing to plot")
	}
	p := plot.New()
	p.Title.Text = "Feature importance"
	p.X.Label.Text = "Impurity decrease"

	// reversed so the most important feature sits at the top
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		r := ranking[n-1-i]
		vals[i] = r.Importance
		names[i] = r.Name
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(10))
	if err != nil {
		return "", err
	}
	bars.Horizontal = true
	bars.Color = baseColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(names...)

	path := filepath.Join(dir, "feature_importance.png")
	if err := p.Save(8*vg.Inch, vg.Length(n)*0.3*vg.Inch+vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}
