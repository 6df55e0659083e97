// Package assessment runs the audiometric calculations for a patient record.
package assessment

import (
	"context"
	"fmt"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/rs/zerolog/log"
)

// Outcome is one computed index, or the error explaining why it is missing
type Outcome struct {
	Result audiometry.IndexResult
	Err    error
}

// OK reports whether the index was computed
func (o Outcome) OK() bool { return o.Err == nil }

func outcome(r audiometry.IndexResult, err error) Outcome {
	return Outcome{Result: r, Err: err}
}

// EarIndices are the three per-ear indices
type EarIndices struct {
	HearingLoss Outcome
	SAL         Outcome
	ELI         Outcome
}

// Assessment is every index for one patient: three per ear plus bilateral
type Assessment struct {
	Right     EarIndices
	Left      EarIndices
	Bilateral Outcome
}

// Evaluate computes all indices for two profiles. Missing data in one ear
// never prevents the other ear's results.
func Evaluate(right, left audiometry.Profile) Assessment {
	a := Assessment{
		Right: evaluateEar(right),
		Left:  evaluateEar(left),
	}

	r, rerr := right.Values()
	l, lerr := left.Values()
	switch {
	case rerr != nil:
		a.Bilateral = Outcome{Err: fmt.Errorf("right ear: %w", rerr)}
	case lerr != nil:
		a.Bilateral = Outcome{Err: fmt.Errorf("left ear: %w", lerr)}
	default:
		a.Bilateral = outcome(audiometry.Bilateral(r, l))
	}
	return a
}

func evaluateEar(p audiometry.Profile) EarIndices {
	var ear EarIndices

	if all, err := p.Values(); err != nil {
		ear.HearingLoss = Outcome{Err: err}
		ear.ELI = Outcome{Err: err}
	} else {
		ear.HearingLoss = outcome(audiometry.HearingLoss(all))
		ear.ELI = outcome(audiometry.ELI(all))
	}

	if speech, err := p.Leading(3); err != nil {
		ear.SAL = Outcome{Err: err}
	} else {
		ear.SAL = outcome(audiometry.SAL(speech))
	}
	return ear
}

// Service loads patients and assesses them
type Service interface {
	AssessPatient(ctx context.Context, id string) (*models.Patient, Assessment, error)
}

type service struct {
	repository repository.PatientRepository
}

// NewService creates an assessment service backed by repo
func NewService(repo repository.PatientRepository) Service {
	return &service{repository: repo}
}

func (s *service) AssessPatient(ctx context.Context, id string) (*models.Patient, Assessment, error) {
	patient, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, Assessment{}, err
	}

	a := Evaluate(patient.RightEar, patient.LeftEar)
	log.Debug().
		Str("patientID", id).
		Bool("right_complete", a.Right.HearingLoss.OK()).
		Bool("left_complete", a.Left.HearingLoss.OK()).
		Msg("Assessed patient")

	return patient, a, nil
}
