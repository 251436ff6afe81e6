// Package errors provides error handling and warnings for the feature
// pipeline. Fatal conditions (missing columns, type mismatches, malformed
// configuration) are structured error types carrying enough context to
// diagnose a failed run without re-running it; degenerate-but-defined
// conditions (ill-defined metrics) are warnings routed through a
// process-wide handler.
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Global warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("featpipe-warning: %v\n", w)
	}
	// zerolog sink, wired lazily by pkg/log to avoid an import cycle.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler replaces the process-wide warning handler.
//
// Example:
//
//	errors.SetWarningHandler(func(w error) {
//	    // ignore warnings
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs a zerolog-backed warning sink. When set, it
// takes precedence over the plain handler.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the configured sink.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// UndefinedMetricWarning is emitted when a classification metric is
// ill-defined for the given confusion matrix (e.g. precision with no
// positive predictions) and a defined fallback value is returned instead.
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // value returned under this condition
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %g due to %s", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning creates a new UndefinedMetricWarning.
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ConvergenceWarning is emitted when an iterative fit stops before meeting
// its tolerance.
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
}

func (w *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting the learning rate.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning creates a new ConvergenceWarning.
func NewConvergenceWarning(algorithm string, iterations int) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations}
}

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// ColumnNotFoundError reports a reference to a column that is absent from
// the current table state. It carries the names that were available so a
// misconfigured pipeline can be diagnosed from the error alone.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("featpipe: column %q not found. Available: [%s]", e.Column, strings.Join(e.Available, ", "))
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ColumnNotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Strs("available", e.Available).
		Str("type", "ColumnNotFoundError")
}

// NewColumnNotFoundError creates a ColumnNotFoundError with a stack trace.
// The available slice is copied; callers may pass live column name slices.
func NewColumnNotFoundError(column string, available []string) error {
	err := &ColumnNotFoundError{Column: column, Available: append([]string(nil), available...)}
	return errors.WithStack(err)
}

// ComputationError reports a failure while computing a feature step, e.g.
// aggregating a non-numeric column.
type ComputationError struct {
	Step   string // feature step name, empty when outside step context
	Column string
	Reason string
}

func (e *ComputationError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("featpipe: step %q: column %q: %s", e.Step, e.Column, e.Reason)
	}
	return fmt.Sprintf("featpipe: column %q: %s", e.Column, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ComputationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("step", e.Step).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "ComputationError")
}

// NewComputationError creates a ComputationError with a stack trace.
func NewComputationError(step, column, reason string) error {
	err := &ComputationError{Step: step, Column: column, Reason: reason}
	return errors.WithStack(err)
}

// ConfigurationError reports a malformed pipeline definition: duplicate
// feature names, unknown functions or comparators, missing fields. It is
// always raised before any computation begins.
type ConfigurationError struct {
	Field  string
	Reason string
	Value  interface{}
}

func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("featpipe: invalid configuration for %q: %s (got: %v)", e.Field, e.Reason, e.Value)
	}
	return fmt.Sprintf("featpipe: invalid configuration for %q: %s", e.Field, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("field", e.Field).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigurationError")
}

// NewConfigurationError creates a ConfigurationError with a stack trace.
func NewConfigurationError(field, reason string, value interface{}) error {
	err := &ConfigurationError{Field: field, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// EncodingError reports a label-encoding failure, e.g. a null target value
// under the fail-fast policy.
type EncodingError struct {
	Column string
	Row    int
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("featpipe: encoding column %q: row %d: %s", e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("featpipe: encoding column %q: %s", e.Column, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *EncodingError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).
		Int("row", e.Row).
		Str("reason", e.Reason).
		Str("type", "EncodingError")
}

// NewEncodingError creates an EncodingError with a stack trace. Pass a
// negative row when the failure is not tied to a single row.
func NewEncodingError(column string, row int, reason string) error {
	err := &EncodingError{Column: column, Row: row, Reason: reason}
	return errors.WithStack(err)
}

// DimensionError reports mismatched input lengths or shapes.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("featpipe: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError creates a DimensionError with a stack trace.
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValueError reports an argument whose value is invalid for the operation.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("featpipe: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// NotFittedError reports Predict/Transform called on an unfitted estimator.
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("featpipe: %s: this estimator is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// NewNotFittedError creates a NotFittedError with a stack trace.
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Common error variables
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no rows.
	ErrEmptyData = New("empty data")
)
