package audiometry

import (
	"encoding/json"
	"fmt"
)

// Band is a hearing loss severity classification
type Band int

const (
	Normal Band = iota
	Mild
	Moderate
	ModerateSevere
	Severe
	Profound
)

// upper bounds (inclusive) for every band below Profound
var bandCeilings = [...]struct {
	max  float64
	band Band
}{
	{25, Normal},
	{40, Mild},
	{55, Moderate},
	{70, ModerateSevere},
	{90, Severe},
}

var bandLabels = [...]string{"Normal", "Mild", "Moderate", "Moderate-Severe", "Severe", "Profound"}

var bandKeys = [...]string{"normal", "mild", "moderate", "moderate_severe", "severe", "profound"}

// Classify maps an average dB HL value to its band. It is the only place
// thresholds are defined.
func Classify(average float64) Band {
	for _, c := range bandCeilings {
		if average <= c.max {
			return c.band
		}
	}
	return Profound
}

// Bands returns every band in severity order
func Bands() []Band {
	return []Band{Normal, Mild, Moderate, ModerateSevere, Severe, Profound}
}

func (b Band) valid() bool { return b >= Normal && b <= Profound }

// String returns the display label, e.g. "Moderate-Severe"
func (b Band) String() string {
	if !b.valid() {
		return fmt.Sprintf("Band(%d)", int(b))
	}
	return bandLabels[b]
}

// Key returns the stable identifier used for storage and localization, e.g. "moderate_severe"
func (b Band) Key() string {
	if !b.valid() {
		return ""
	}
	return bandKeys[b]
}

// ParseBand accepts a key or a display label
func ParseBand(s string) (Band, error) {
	for _, b := range Bands() {
		if s == b.Key() || s == b.String() {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown band %q", s)
}

func (b Band) MarshalJSON() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("invalid band %d", int(b))
	}
	return json.Marshal(b.Key())
}

func (b *Band) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBand(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
