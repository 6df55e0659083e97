package audiometry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		average float64
		want    Band
	}{
		{-10, Normal},
		{0, Normal},
		{25.0, Normal},
		{25.1, Mild},
		{25.5, Mild},
		{40.0, Mild},
		{40.1, Moderate},
		{55.0, Moderate},
		{55.1, ModerateSevere},
		{70.0, ModerateSevere},
		{70.1, Severe},
		{90.0, Severe},
		{90.1, Profound},
		{500, Profound},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.average), "average %v", tt.average)
	}
}

func TestHearingLoss(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		wantValue float64
		wantBand  Band
	}{
		{"normal hearing", []float64{10, 15, 20, 25, 20}, 18, Normal},
		{"mild loss", []float64{30, 35, 40, 45, 50}, 40, Mild},
		{"exact boundary", []float64{25, 25, 25, 25, 25}, 25, Normal},
		{"just above boundary", []float64{25.1}, 25.1, Mild},
		{"single value", []float64{95}, 95, Profound},
		{"partial profile", []float64{50, 60}, 55, Moderate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HearingLoss(tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantValue, got.Value, 1e-9)
			assert.Equal(t, tt.wantBand, got.Band)
		})
	}
}

func TestHearingLoss_Empty(t *testing.T) {
	got, err := HearingLoss(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientInput))
	assert.Equal(t, IndexResult{}, got)

	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "hearing loss", dataErr.Op)
}

func TestSAL(t *testing.T) {
	got, err := SAL([]float64{10, 20, 30, 999, 999})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.Value, 1e-9)
	assert.Equal(t, Normal, got.Band)

	got, err = SAL([]float64{40, 45, 50})
	require.NoError(t, err)
	assert.InDelta(t, 45.0, got.Value, 1e-9)
	assert.Equal(t, Moderate, got.Band)
}

func TestSAL_InsufficientInput(t *testing.T) {
	for _, values := range [][]float64{nil, {10}, {10, 20}} {
		_, err := SAL(values)
		assert.ErrorIs(t, err, ErrInsufficientInput, "values %v", values)
	}
}

func TestELI(t *testing.T) {
	// 10*0.15 + 20*0.25 + 30*0.25 + 40*0.25 + 50*0.10
	got, err := ELI([]float64{10, 20, 30, 40, 50})
	require.NoError(t, err)
	assert.InDelta(t, 29.0, got.Value, 1e-9)
	assert.Equal(t, Mild, got.Band)

	got, err = ELI([]float64{20, 20, 20, 20, 20})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.Value, 1e-9, "weights sum to one")
	assert.Equal(t, Normal, got.Band)

	got, err = ELI([]float64{0, 0, 0, 0, 100})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got.Value, 1e-9)
}

func TestELI_WrongLength(t *testing.T) {
	_, err := ELI([]float64{10, 20, 30, 40})
	assert.ErrorIs(t, err, ErrInsufficientInput)

	_, err = ELI([]float64{10, 20, 30, 40, 50, 60})
	assert.ErrorIs(t, err, ErrProfileLength)
	assert.NotErrorIs(t, err, ErrInsufficientInput)
}

func TestBilateral(t *testing.T) {
	got, err := Bilateral([]float64{10, 15, 20, 25, 20}, []float64{30, 35, 40, 45, 50})
	require.NoError(t, err)
	assert.InDelta(t, 29.0, got.Value, 1e-9)
	assert.Equal(t, Mild, got.Band)

	got, err = Bilateral([]float64{0, 0, 0, 0, 0}, []float64{100, 100, 100, 100, 100})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.Value, 1e-9)
	assert.Equal(t, Moderate, got.Band)
}

func TestBilateral_MeanOfMeans(t *testing.T) {
	// pooled mean of all four values would be 32.5 (Mild)
	got, err := Bilateral([]float64{10}, []float64{30, 40, 50})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, got.Value, 1e-9)
	assert.Equal(t, Normal, got.Band)
}

func TestBilateral_MissingEar(t *testing.T) {
	_, err := Bilateral([]float64{10, 20}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientInput)
	assert.Contains(t, err.Error(), "left ear")

	_, err = Bilateral(nil, []float64{10, 20})
	assert.Contains(t, err.Error(), "right ear")
}

func TestFormatDecibels(t *testing.T) {
	assert.Equal(t, "25.0 dB", FormatDecibels(25.04))
	assert.Equal(t, "25.1 dB", FormatDecibels(25.05))
	assert.Equal(t, "0.0 dB", FormatDecibels(0))
	assert.Equal(t, "120.0 dB", FormatDecibels(120))
	// exact binary ties round to even
	assert.Equal(t, "2.2 dB", FormatDecibels(2.25))
	assert.Equal(t, "2.8 dB", FormatDecibels(2.75))
}

func TestIsPhysiologicallyValid(t *testing.T) {
	assert.False(t, IsPhysiologicallyValid(-1))
	assert.True(t, IsPhysiologicallyValid(0))
	assert.True(t, IsPhysiologicallyValid(60))
	assert.True(t, IsPhysiologicallyValid(120))
	assert.False(t, IsPhysiologicallyValid(120.1))
}

func TestIndexResult_String(t *testing.T) {
	r := IndexResult{Value: 62.5, Band: ModerateSevere}
	assert.Equal(t, "62.5 dB - Moderate-Severe", r.String())
}

func TestBand_JSON(t *testing.T) {
	data, err := json.Marshal(IndexResult{Value: 30, Band: Mild})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":30,"band":"mild"}`, string(data))

	var r IndexResult
	require.NoError(t, json.Unmarshal([]byte(`{"value":75,"band":"Severe"}`), &r))
	assert.Equal(t, Severe, r.Band)

	assert.Error(t, json.Unmarshal([]byte(`{"value":75,"band":"deaf"}`), &r))
}

func TestBand_Labels(t *testing.T) {
	assert.Equal(t, "Moderate-Severe", ModerateSevere.String())
	assert.Equal(t, "moderate_severe", ModerateSevere.Key())
	assert.Len(t, Bands(), 6)
	assert.Equal(t, "", Band(42).Key())
}
