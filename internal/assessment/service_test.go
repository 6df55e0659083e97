package assessment

import (
	"context"
	"testing"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/internal/repository/mocks"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_CompleteProfiles(t *testing.T) {
	a := Evaluate(
		audiometry.NewProfile(10, 15, 20, 25, 20),
		audiometry.NewProfile(30, 35, 40, 45, 50),
	)

	require.True(t, a.Right.HearingLoss.OK())
	assert.InDelta(t, 18.0, a.Right.HearingLoss.Result.Value, 1e-9)
	assert.Equal(t, audiometry.Normal, a.Right.HearingLoss.Result.Band)

	assert.InDelta(t, 15.0, a.Right.SAL.Result.Value, 1e-9)
	assert.InDelta(t, 40.0, a.Left.HearingLoss.Result.Value, 1e-9)
	assert.InDelta(t, 35.0, a.Left.SAL.Result.Value, 1e-9)

	// 30*0.15 + 35*0.25 + 40*0.25 + 45*0.25 + 50*0.10
	assert.InDelta(t, 39.5, a.Left.ELI.Result.Value, 1e-9)
	assert.Equal(t, audiometry.Mild, a.Left.ELI.Result.Band)

	require.True(t, a.Bilateral.OK())
	assert.InDelta(t, 29.0, a.Bilateral.Result.Value, 1e-9)
	assert.Equal(t, audiometry.Mild, a.Bilateral.Result.Band)
}

func TestEvaluate_MissingMeasurements(t *testing.T) {
	right := audiometry.NewProfile(60, 65, 70, 70, 70)
	left := audiometry.Profile{audiometry.Level(20), audiometry.Level(25), audiometry.Level(30), nil, nil}

	a := Evaluate(right, left)

	assert.True(t, a.Right.HearingLoss.OK())
	assert.True(t, a.Right.ELI.OK())
	assert.Equal(t, audiometry.ModerateSevere, a.Right.HearingLoss.Result.Band)

	assert.ErrorIs(t, a.Left.HearingLoss.Err, audiometry.ErrInsufficientInput)
	assert.ErrorIs(t, a.Left.ELI.Err, audiometry.ErrInsufficientInput)
	require.True(t, a.Left.SAL.OK(), "speech frequencies are all measured")
	assert.InDelta(t, 25.0, a.Left.SAL.Result.Value, 1e-9)

	assert.ErrorIs(t, a.Bilateral.Err, audiometry.ErrInsufficientInput)
	assert.Contains(t, a.Bilateral.Err.Error(), "left ear")
	assert.Contains(t, a.Bilateral.Err.Error(), "4000 Hz")
}

func TestEvaluate_EmptyProfiles(t *testing.T) {
	a := Evaluate(audiometry.Profile{}, audiometry.Profile{})

	for name, indices := range map[string]EarIndices{"right": a.Right, "left": a.Left} {
		assert.False(t, indices.HearingLoss.OK(), name)
		assert.False(t, indices.SAL.OK(), name)
		assert.False(t, indices.ELI.OK(), name)
		assert.Equal(t, audiometry.IndexResult{}, indices.HearingLoss.Result)
	}
	assert.Contains(t, a.Bilateral.Err.Error(), "right ear")
}

func TestService_AssessPatient(t *testing.T) {
	repo := &mocks.MockPatientRepository{}
	patient := &models.Patient{
		ID:       "a1",
		Name:     "John Sketches",
		RightEar: audiometry.NewProfile(25, 30, 35, 40, 45),
		LeftEar:  audiometry.NewProfile(20, 25, 30, 35, 40),
	}
	repo.On("Get", mock.Anything, "a1").Return(patient, nil)

	got, a, err := NewService(repo).AssessPatient(context.Background(), "a1")
	require.NoError(t, err)
	assert.Same(t, patient, got)
	assert.InDelta(t, 35.0, a.Right.HearingLoss.Result.Value, 1e-9)
	assert.InDelta(t, 30.0, a.Left.HearingLoss.Result.Value, 1e-9)
	assert.InDelta(t, 32.5, a.Bilateral.Result.Value, 1e-9)
	assert.Equal(t, audiometry.Mild, a.Bilateral.Result.Band)

	repo.AssertExpectations(t)
}

func TestService_AssessPatient_NotFound(t *testing.T) {
	repo := &mocks.MockPatientRepository{}
	repo.On("Get", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, _, err := NewService(repo).AssessPatient(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	repo.AssertExpectations(t)
}
