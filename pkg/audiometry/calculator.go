// Package audiometry computes hearing-level indices from per-frequency
// audiogram thresholds. Every function is pure and safe for concurrent use.
package audiometry

import (
	"errors"
	"fmt"
)

// Frequencies are the tested frequencies in Hz, in profile position order.
var Frequencies = [ProfileLength]int{500, 1000, 2000, 4000, 8000}

// ProfileLength is the number of positions in a frequency profile
const ProfileLength = 5

// speechPositions is the number of leading positions used by SAL (500/1000/2000 Hz)
const speechPositions = 3

// eliWeights apply to profile positions 1:1 and sum to 1.0
var eliWeights = [ProfileLength]float64{0.15, 0.25, 0.25, 0.25, 0.10}

// Physiological range of a hearing level in dB HL
const (
	MinHearingLevel = 0.0
	MaxHearingLevel = 120.0
)

// ErrInsufficientInput is reported when a calculation receives fewer values than it needs
var ErrInsufficientInput = errors.New("insufficient input")

// DataError describes an input-shape violation of a calculation
type DataError struct {
	Op        string
	Required  int
	Supplied  int
	Frequency int // first missing frequency in Hz, 0 when not applicable
	Err       error
}

func (e *DataError) Error() string {
	if e.Frequency > 0 {
		return fmt.Sprintf("%s: %v: no measurement at %d Hz", e.Op, e.Err, e.Frequency)
	}
	return fmt.Sprintf("%s: %v: need %d values, got %d", e.Op, e.Err, e.Required, e.Supplied)
}

func (e *DataError) Unwrap() error { return e.Err }

// IndexResult is a computed dB value together with its classification
type IndexResult struct {
	Value float64 `json:"value" doc:"Index value in dB HL"`
	Band  Band    `json:"band" doc:"Hearing loss classification"`
}

// String renders the result as "25.0 dB - Normal"
func (r IndexResult) String() string {
	return FormatDecibels(r.Value) + " - " + r.Band.String()
}

// HearingLoss returns the arithmetic mean of values, classified.
func HearingLoss(values []float64) (IndexResult, error) {
	if len(values) == 0 {
		return IndexResult{}, &DataError{Op: "hearing loss", Required: 1, Err: ErrInsufficientInput}
	}
	avg := mean(values)
	return IndexResult{Value: avg, Band: Classify(avg)}, nil
}

// SAL returns the Speech Audiometry Level: the mean of the first three
// positions. Values past the third are ignored.
func SAL(values []float64) (IndexResult, error) {
	if len(values) < speechPositions {
		return IndexResult{}, &DataError{Op: "SAL", Required: speechPositions, Supplied: len(values), Err: ErrInsufficientInput}
	}
	sal := mean(values[:speechPositions])
	return IndexResult{Value: sal, Band: Classify(sal)}, nil
}

// ErrProfileLength is reported by ELI when given more values than there are weights
var ErrProfileLength = errors.New("profile length mismatch")

// ELI returns the Ear Loss Index, a weighted average over exactly five positions.
func ELI(values []float64) (IndexResult, error) {
	switch {
	case len(values) < ProfileLength:
		return IndexResult{}, &DataError{Op: "ELI", Required: ProfileLength, Supplied: len(values), Err: ErrInsufficientInput}
	case len(values) > ProfileLength:
		return IndexResult{}, &DataError{Op: "ELI", Required: ProfileLength, Supplied: len(values), Err: ErrProfileLength}
	}

	var eli float64
	for i, v := range values {
		eli += v * eliWeights[i]
	}
	return IndexResult{Value: eli, Band: Classify(eli)}, nil
}

// Bilateral averages the per-ear hearing loss means and classifies that
// average. It is a mean of means, not a mean over the pooled values.
func Bilateral(right, left []float64) (IndexResult, error) {
	r, err := HearingLoss(right)
	if err != nil {
		return IndexResult{}, fmt.Errorf("right ear: %w", err)
	}
	l, err := HearingLoss(left)
	if err != nil {
		return IndexResult{}, fmt.Errorf("left ear: %w", err)
	}
	avg := (r.Value + l.Value) / 2
	return IndexResult{Value: avg, Band: Classify(avg)}, nil
}

// FormatDecibels renders value with one decimal and a "dB" suffix. The exact
// binary value is rounded; exact ties round to even ("2.25" -> "2.2 dB").
func FormatDecibels(value float64) string {
	return fmt.Sprintf("%.1f dB", value)
}

// IsPhysiologicallyValid reports whether value lies within 0..120 dB HL inclusive.
func IsPhysiologicallyValid(value float64) bool {
	return value >= MinHearingLevel && value <= MaxHearingLevel
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
