package models

import "github.com/RMahshie/audiometry/pkg/audiometry"

// ThresholdRow is the pair of measurements at a single frequency
type ThresholdRow struct {
	Frequency int      `json:"frequency" doc:"Frequency in Hz"`
	Right     *float64 `json:"right,omitempty" doc:"Right ear threshold in dB HL"`
	Left      *float64 `json:"left,omitempty" doc:"Left ear threshold in dB HL"`
}

// Thresholds lays out both profiles as one row per tested frequency
func Thresholds(right, left audiometry.Profile) []ThresholdRow {
	rows := make([]ThresholdRow, audiometry.ProfileLength)
	for i, hz := range audiometry.Frequencies {
		rows[i] = ThresholdRow{Frequency: hz, Right: right[i], Left: left[i]}
	}
	return rows
}
