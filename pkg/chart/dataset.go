package chart

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch  = errors.New("series length does not match x-axis length")
	ErrEmptyDataset   = errors.New("dataset has no x values or no series")
	ErrEmptyLabel     = errors.New("series label is empty")
	ErrDuplicateLabel = errors.New("series label is not unique")
)

// Series is one named line of the chart, one value per x-axis entry.
type Series struct {
	Label  string
	Values []float64
}

// Dataset is the input of a chart: a shared x-axis and the series plotted
// against it. Series order is the legend order.
type Dataset struct {
	X      []float64
	Series []Series
}

// ShapeError reports a series whose length differs from the x-axis.
type ShapeError struct {
	Label string
	Got   int
	Want  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("series %q has %d values, x-axis has %d: %s", e.Label, e.Got, e.Want, ErrShapeMismatch)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// Validate checks that every series lines up with the x-axis and that
// labels are usable as legend entries.
func (d Dataset) Validate() error {
	if len(d.X) == 0 || len(d.Series) == 0 {
		return ErrEmptyDataset
	}

	for _, s := range d.Series {
		if len(s.Values) != len(d.X) {
			return &ShapeError{Label: s.Label, Got: len(s.Values), Want: len(d.X)}
		}
	}

	seen := make(map[string]struct{}, len(d.Series))
	for _, s := range d.Series {
		if s.Label == "" {
			return ErrEmptyLabel
		}
		if _, ok := seen[s.Label]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLabel, s.Label)
		}
		seen[s.Label] = struct{}{}
	}

	return nil
}

// Labels returns the series labels in legend order.
func (d Dataset) Labels() []string {
	labels := make([]string, 0, len(d.Series))
	for _, s := range d.Series {
		labels = append(labels, s.Label)
	}
	return labels
}
