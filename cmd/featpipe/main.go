// Command featpipe runs a declarative feature pipeline end to end: load a
// CSV dataset, derive feature columns, split, encode the target, fit a
// logistic classifier and write the evaluation artifacts into a
// timestamped run directory.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/featpipe/config"
	"github.com/YuminosukeSato/featpipe/dataframe"
	"github.com/YuminosukeSato/featpipe/dataset"
	"github.com/YuminosukeSato/featpipe/feature"
	"github.com/YuminosukeSato/featpipe/linear"
	"github.com/YuminosukeSato/featpipe/metrics"
	"github.com/YuminosukeSato/featpipe/pkg/errors"
	"github.com/YuminosukeSato/featpipe/pkg/log"
	"github.com/YuminosukeSato/featpipe/preprocessing"
	"github.com/YuminosukeSato/featpipe/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("run failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "featpipe",
		Short:         "Declarative feature engineering and classification evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a pipeline run described by an entrypoint config",
		RunE: func(cmd *cobra.Command, args []string) error {
			// A panic anywhere in the run surfaces as an ordinary exit-1
			// error instead of a crash dump.
			return errors.SafeExecute("pipeline run", func() error {
				return run(configPath)
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config/entrypoint.yaml", "entrypoint config file")
	return cmd
}

func run(configPath string) error {
	cfg, err := config.LoadEntrypoint(configPath)
	if err != nil {
		return err
	}
	log.SetupLogger(cfg.LogLevel)
	log.SetupWarnings()

	runDir, err := createRunDir(cfg.Output)
	if err != nil {
		return err
	}
	slog.Info("run started", "config", configPath, "run_dir", runDir)

	featureCfg, err := config.LoadFeaturePipeline(cfg.Features)
	if err != nil {
		return err
	}
	steps, err := featureCfg.Build()
	if err != nil {
		return err
	}
	labelsCfg, err := config.LoadLabelsPipeline(cfg.Labels)
	if err != nil {
		return err
	}
	targets, err := labelsCfg.Build()
	if err != nil {
		return err
	}

	strategy, err := cfg.EngineStrategy()
	if err != nil {
		return err
	}
	engine, err := feature.NewEngine(steps,
		feature.WithStrategy(strategy),
		feature.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return err
	}

	df, err := dataframe.ReadCSVFile(cfg.Data)
	if err != nil {
		return err
	}
	slog.Info("data loaded", log.RowsKey, df.NumRows(), log.ColsKey, df.NumCols())

	features, err := engine.Apply(df)
	if err != nil {
		return err
	}
	slog.Info("features computed",
		log.StrategyKey, strategy.String(),
		log.FeaturesKey, features.NumCols()-df.NumCols(),
	)

	labels, trainTarget, err := applyTargets(df, targets)
	if err != nil {
		return err
	}

	if err := features.WriteCSVFile(filepath.Join(runDir, "features.csv"), ';'); err != nil {
		return err
	}
	if err := labels.WriteCSVFile(filepath.Join(runDir, "labels.csv"), ';'); err != nil {
		return err
	}

	summary, err := evaluate(features, trainTarget, cfg)
	if err != nil {
		return err
	}

	if err := writeSummary(summary, runDir); err != nil {
		return err
	}
	slog.Info("run complete",
		log.AccuracyKey, summary.Accuracy,
		log.PrecisionKey, summary.Precision,
		log.RecallKey, summary.Recall,
		log.F1Key, summary.F1,
	)
	return summary.WriteText(os.Stdout)
}

// applyTargets realizes the labels pipeline: each target spec adds an
// aliased or encoded column, optionally dropping the original. The codes
// of the first encoded spec become the training target.
func applyTargets(df *dataframe.DataFrame, targets []config.TargetSpec) (*dataframe.DataFrame, []int, error) {
	labels := df
	var trainTarget []int

	for _, spec := range targets {
		col, err := labels.Column(spec.Column)
		if err != nil {
			return nil, nil, err
		}
		if spec.Encode {
			encoder := preprocessing.NewLabelEncoder()
			codes, _, err := encoder.FitTransform(col)
			if err != nil {
				return nil, nil, err
			}
			encoded := make([]float64, len(codes))
			for i, c := range codes {
				encoded[i] = float64(c)
			}
			labels, err = labels.WithColumns(dataframe.NewFloat64Series(spec.Name, encoded))
			if err != nil {
				return nil, nil, err
			}
			if trainTarget == nil {
				trainTarget = codes
			}
		} else {
			labels, err = labels.WithColumns(col.Rename(spec.Name))
			if err != nil {
				return nil, nil, err
			}
		}
		if spec.DropOriginal {
			labels, err = labels.Drop(spec.Column)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	if trainTarget == nil {
		return nil, nil, errors.NewConfigurationError("labels", "at least one encoded target is required", nil)
	}
	return labels, trainTarget, nil
}

// evaluate splits the augmented table, fits the classifier on the derived
// feature columns and scores it on the held-out partition.
func evaluate(features *dataframe.DataFrame, target []int, cfg *config.Entrypoint) (*report.Summary, error) {
	split, err := dataset.TrainTestSplit(features, cfg.TestRatio, cfg.Seed)
	if err != nil {
		return nil, err
	}
	yTrain, err := dataset.TakeLabels(target, split.TrainIndices)
	if err != nil {
		return nil, err
	}
	yTest, err := dataset.TakeLabels(target, split.TestIndices)
	if err != nil {
		return nil, err
	}

	featureCols := derivedColumns(features)
	if len(featureCols) == 0 {
		return nil, errors.NewConfigurationError("features", "pipeline produced no numeric feature columns", nil)
	}

	xTrain, err := featureMatrix(split.Train, featureCols)
	if err != nil {
		return nil, err
	}
	xTest, err := featureMatrix(split.Test, featureCols)
	if err != nil {
		return nil, err
	}

	clf := linear.NewLogisticRegression()
	if err := clf.Fit(xTrain, yTrain); err != nil {
		return nil, err
	}
	preds, err := clf.Predict(xTest)
	if err != nil {
		return nil, err
	}

	cm, err := metrics.NewConfusionMatrix(yTest, preds)
	if err != nil {
		return nil, err
	}
	return report.NewSummary(cm)
}

// derivedColumns lists the numeric derived columns, in declared order.
func derivedColumns(df *dataframe.DataFrame) []string {
	var cols []string
	for _, name := range df.ColumnNames() {
		if !strings.HasPrefix(name, feature.Prefix) {
			continue
		}
		s, err := df.Column(name)
		if err != nil || s.DType() == dataframe.String {
			continue
		}
		cols = append(cols, name)
	}
	return cols
}

// featureMatrix builds the classifier input from the given columns,
// imputing nulls (e.g. rows where a ratio denominator was zero) as 0.
func featureMatrix(df *dataframe.DataFrame, cols []string) (*mat.Dense, error) {
	filled := make([]*dataframe.Series, len(cols))
	for i, name := range cols {
		s, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		filled[i], err = s.FillNull(0)
		if err != nil {
			return nil, err
		}
	}
	frame, err := dataframe.New(filled...)
	if err != nil {
		return nil, err
	}
	return frame.ToMatrix()
}

func createRunDir(base string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	runDir := filepath.Join(base, timestamp)
	if err := os.MkdirAll(runDir, 0o750); err != nil {
		return "", errors.Wrap(err, "create run directory")
	}
	return runDir, nil
}

func writeSummary(summary *report.Summary, runDir string) error {
	f, err := os.Create(filepath.Join(runDir, "metrics.txt")) // #nosec G304 -- run dir created above
	if err != nil {
		return errors.Wrap(err, "create metrics file")
	}
	if err := summary.WriteText(f); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close metrics file")
	}
	return summary.SaveChart(filepath.Join(runDir, "metrics.png"))
}
