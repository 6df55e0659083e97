package audiometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Profile holds one hearing level per tested frequency. A nil entry means no
// measurement was taken, which is distinct from 0 dB HL.
type Profile [ProfileLength]*float64

// NewProfile builds a fully measured profile
func NewProfile(v500, v1000, v2000, v4000, v8000 float64) Profile {
	return Profile{&v500, &v1000, &v2000, &v4000, &v8000}
}

// Level returns a pointer to a copy of v, for filling individual profile positions
func Level(v float64) *float64 { return &v }

// Leading returns the first n values. A missing value among them yields a
// DataError wrapping ErrInsufficientInput naming the frequency.
func (p Profile) Leading(n int) ([]float64, error) {
	if n > ProfileLength {
		n = ProfileLength
	}
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if p[i] == nil {
			return nil, &DataError{Op: "profile", Required: n, Supplied: i, Frequency: Frequencies[i], Err: ErrInsufficientInput}
		}
		values = append(values, *p[i])
	}
	return values, nil
}

// Values returns all five values, failing if any is missing
func (p Profile) Values() ([]float64, error) {
	return p.Leading(ProfileLength)
}

// Measured counts the positions holding a value
func (p Profile) Measured() int {
	n := 0
	for _, v := range p {
		if v != nil {
			n++
		}
	}
	return n
}

// RangeViolation is a measured value outside the physiological range
type RangeViolation struct {
	Position  int
	Frequency int
	Value     float64
}

func (v RangeViolation) Error() string {
	return fmt.Sprintf("%d Hz: %.1f dB HL outside %.0f-%.0f", v.Frequency, v.Value, MinHearingLevel, MaxHearingLevel)
}

// Validate lists measured values that fail IsPhysiologicallyValid
func (p Profile) Validate() []RangeViolation {
	var out []RangeViolation
	for i, v := range p {
		if v != nil && !IsPhysiologicallyValid(*v) {
			out = append(out, RangeViolation{Position: i, Frequency: Frequencies[i], Value: *v})
		}
	}
	return out
}

// ParseHearingLevel converts form text to a hearing level. Blank text is a
// missing measurement (nil); text that is not a number is an error.
func ParseHearingLevel(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid hearing level %q", text)
	}
	return &v, nil
}
