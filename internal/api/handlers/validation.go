package handlers

import (
	"fmt"
	"strings"

	"github.com/RMahshie/audiometry/internal/assessment"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/danielgtaylor/huma/v2"
)

// parseInput converts the form's text fields into profiles. Every bad field is
// reported at once so the form can highlight all of them.
func parseInput(in models.PatientInput) (right, left audiometry.Profile, err error) {
	var details []error
	right, details = parseEar("body.right_ear", in.RightEar, details)
	left, details = parseEar("body.left_ear", in.LeftEar, details)

	if len(details) > 0 {
		return right, left, huma.Error422UnprocessableEntity("Invalid hearing levels", details...)
	}
	return right, left, nil
}

func parseEar(location string, fields []string, details []error) (audiometry.Profile, []error) {
	var p audiometry.Profile
	if len(fields) > audiometry.ProfileLength {
		return p, append(details, &huma.ErrorDetail{
			Message:  fmt.Sprintf("expected at most %d values", audiometry.ProfileLength),
			Location: location,
			Value:    len(fields),
		})
	}

	for i, field := range fields {
		v, err := audiometry.ParseHearingLevel(field)
		if err != nil {
			details = append(details, &huma.ErrorDetail{
				Message:  fmt.Sprintf("%d Hz: not a number", audiometry.Frequencies[i]),
				Location: fmt.Sprintf("%s[%d]", location, i),
				Value:    strings.TrimSpace(field),
			})
			continue
		}
		p[i] = v
	}

	for _, v := range p.Validate() {
		details = append(details, &huma.ErrorDetail{
			Message: fmt.Sprintf("%d Hz: must be between %.0f and %.0f dB HL",
				v.Frequency, audiometry.MinHearingLevel, audiometry.MaxHearingLevel),
			Location: fmt.Sprintf("%s[%d]", location, v.Position),
			Value:    v.Value,
		})
		p[v.Position] = nil
	}
	return p, details
}

func toIndexBody(o assessment.Outcome) models.IndexResultBody {
	if !o.OK() {
		return models.IndexResultBody{Error: o.Err.Error()}
	}
	value := o.Result.Value
	return models.IndexResultBody{
		Value:     &value,
		Band:      o.Result.Band.Key(),
		Label:     o.Result.Band.String(),
		Formatted: audiometry.FormatDecibels(value),
	}
}

func toEarBody(e assessment.EarIndices) models.EarIndicesBody {
	return models.EarIndicesBody{
		HearingLoss: toIndexBody(e.HearingLoss),
		SAL:         toIndexBody(e.SAL),
		ELI:         toIndexBody(e.ELI),
	}
}

func toAssessmentBody(a assessment.Assessment, thresholds []models.ThresholdRow) models.AssessmentBody {
	return models.AssessmentBody{
		Right:      toEarBody(a.Right),
		Left:       toEarBody(a.Left),
		Bilateral:  toIndexBody(a.Bilateral),
		Thresholds: thresholds,
	}
}
