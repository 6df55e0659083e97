package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/internal/repository/repositorytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) repository.PatientRepository {
	t.Helper()
	repo, err := NewSQLitePatientRepository(filepath.Join(t.TempDir(), "patients.sqlite"), false)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLitePatientRepository(t *testing.T) {
	repositorytest.Run(t, newTestRepository)
}

func TestSQLitePatientRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "patients.sqlite")
	ctx := context.Background()

	repo, err := NewSQLitePatientRepository(path, false)
	require.NoError(t, err)
	p := repositorytest.NewPatient("Reopened")
	require.NoError(t, repo.Upsert(ctx, p))
	require.NoError(t, repo.Close())

	repo, err = NewSQLitePatientRepository(path, false)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reopened", got.Name)
	assert.Nil(t, got.LeftEar[4])
}

func TestNewSQLitePatientRepository_RequiresPath(t *testing.T) {
	_, err := NewSQLitePatientRepository("", false)
	assert.Error(t, err)
}
