// Package report renders the evaluation results of a run: a plain-text
// metrics summary and a bar chart of the derived metrics.
package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/featpipe/metrics"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
)

// Summary holds a confusion matrix together with its derived metrics,
// computed once at construction.
type Summary struct {
	Matrix *metrics.ConfusionMatrix

	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// NewSummary derives the four metrics from a confusion matrix.
func NewSummary(cm *metrics.ConfusionMatrix) (*Summary, error) {
	acc, err := cm.Accuracy()
	if err != nil {
		return nil, err
	}
	return &Summary{
		Matrix:    cm,
		Accuracy:  acc,
		Precision: cm.Precision(),
		Recall:    cm.Recall(),
		F1:        cm.F1(),
	}, nil
}

// WriteText writes a human-readable summary.
func (s *Summary) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"confusion matrix\n"+
			"  TP=%d FP=%d\n"+
			"  FN=%d TN=%d\n"+
			"\n"+
			"accuracy:  %.4f\n"+
			"precision: %.4f\n"+
			"recall:    %.4f\n"+
			"f1:        %.4f\n",
		s.Matrix.TP, s.Matrix.FP, s.Matrix.FN, s.Matrix.TN,
		s.Accuracy, s.Precision, s.Recall, s.F1)
	return errors.Wrap(err, "write metrics summary")
}

// SaveChart renders the four metrics as a bar chart image. The format is
// chosen from the path extension (png, svg, pdf, ...).
func (s *Summary) SaveChart(path string) error {
	p := plot.New()
	p.Title.Text = "Classification metrics"
	p.Y.Min, p.Y.Max = 0, 1
	p.Y.Label.Text = "score"

	values := plotter.Values{s.Accuracy, s.Precision, s.Recall, s.F1}
	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return errors.Wrap(err, "build metrics chart")
	}
	p.Add(bars)
	p.NominalX("accuracy", "precision", "recall", "f1")

	return errors.Wrap(p.Save(5*vg.Inch, 4*vg.Inch, path), "save metrics chart")
}
