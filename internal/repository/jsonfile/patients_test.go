package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/internal/repository/repositorytest"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) repository.PatientRepository {
	t.Helper()
	repo, err := NewJSONPatientRepository(Options{Path: filepath.Join(t.TempDir(), "patients.json")})
	require.NoError(t, err)
	return repo
}

func TestJSONPatientRepository(t *testing.T) {
	repositorytest.Run(t, newTestRepository)
}

func TestJSONPatientRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "patients.json")
	ctx := context.Background()

	repo, err := NewJSONPatientRepository(Options{Path: path})
	require.NoError(t, err)
	p := repositorytest.NewPatient("Persisted")
	require.NoError(t, repo.Upsert(ctx, p))

	reopened, err := NewJSONPatientRepository(Options{Path: path})
	require.NoError(t, err)
	got, err := reopened.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Persisted", got.Name)
	assert.Nil(t, got.LeftEar[2])

	// the document is a plain JSON array with nulls for missing measurements
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, []any{20.0, 0.0, nil, 35.0, nil}, raw[0]["left_ear"])
}

func TestJSONPatientRepository_SeedsOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "sample.json")
	path := filepath.Join(dir, "patients.json")

	sample := []*models.Patient{repositorytest.NewPatient("Sample Patient")}
	sample[0].ID = "6c1c4b50-9d2c-4c7e-9d7e-1b8f4f0f2a11"
	data, err := json.Marshal(sample)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(seed, data, 0o644))

	repo, err := NewJSONPatientRepository(Options{Path: path, SeedPath: seed})
	require.NoError(t, err)
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Sample Patient", all[0].Name)

	// an existing store is never overwritten by the seed
	require.NoError(t, repo.Delete(context.Background(), sample[0].ID))
	repo, err = NewJSONPatientRepository(Options{Path: path, SeedPath: seed})
	require.NoError(t, err)
	all, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestJSONPatientRepository_CorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo, err := NewJSONPatientRepository(Options{Path: path})
	require.NoError(t, err)
	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	// the unreadable file is kept and survives the next write
	require.NoError(t, repo.Upsert(context.Background(), repositorytest.NewPatient("After")))

	aside, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, aside, 1)
	data, err := os.ReadFile(aside[0])
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestJSONPatientRepository_ReturnsCopies(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	p := repositorytest.NewPatient("Copy")
	require.NoError(t, repo.Upsert(ctx, p))
	p.Name = "Mutated after save"

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copy", got.Name)
	*got.RightEar[0] = 99

	again, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, *again.RightEar[0])
}

func TestNewJSONPatientRepository_RequiresPath(t *testing.T) {
	_, err := NewJSONPatientRepository(Options{})
	assert.Error(t, err)
}
