package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/featpipe/metrics"
)

func TestNewSummary(t *testing.T) {
	cm, err := metrics.NewConfusionMatrix(
		[]int{1, 0, 0, 1, 1},
		[]int{1, 1, 0, 0, 1},
	)
	require.NoError(t, err)

	summary, err := NewSummary(cm)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, summary.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, summary.Precision, 1e-12)
	assert.InDelta(t, 2.0/3.0, summary.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, summary.F1, 1e-12)
}

func TestNewSummaryEmptyMatrix(t *testing.T) {
	_, err := NewSummary(&metrics.ConfusionMatrix{})
	require.Error(t, err)
}

func TestWriteText(t *testing.T) {
	cm, err := metrics.NewConfusionMatrix([]int{1, 0}, []int{1, 0})
	require.NoError(t, err)
	summary, err := NewSummary(cm)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, summary.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "TP=1 FP=0")
	assert.Contains(t, out, "FN=0 TN=1")
	assert.Contains(t, out, "accuracy:  1.0000")
	assert.Contains(t, out, "f1:        1.0000")
}

func TestSaveChart(t *testing.T) {
	cm, err := metrics.NewConfusionMatrix([]int{1, 0, 1}, []int{1, 0, 0})
	require.NoError(t, err)
	summary, err := NewSummary(cm)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "metrics.png")
	require.NoError(t, summary.SaveChart(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
