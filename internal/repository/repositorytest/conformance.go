// Package repositorytest holds behaviour tests shared by every PatientRepository backend.
package repositorytest

import (
	"context"
	"testing"
	"time"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewPatient builds a patient with a full right ear and a partial left ear
func NewPatient(name string) *models.Patient {
	return &models.Patient{
		Name:     name,
		Age:      "45",
		Job:      "Engineer",
		RightEar: audiometry.NewProfile(25, 30, 35, 40, 45),
		LeftEar:  audiometry.Profile{audiometry.Level(20), audiometry.Level(0), nil, audiometry.Level(35), nil},
	}
}

func names(patients []*models.Patient) []string {
	out := make([]string, len(patients))
	for i, p := range patients {
		out[i] = p.Name
	}
	return out
}

// Run exercises the PatientRepository contract against a fresh store from newRepo
func Run(t *testing.T, newRepo func(t *testing.T) repository.PatientRepository) {
	t.Run("upsert assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := NewPatient("John Sketches")
		require.NoError(t, repo.Upsert(ctx, p))
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.DateCreated.IsZero())
		assert.False(t, p.DateModified.Before(p.DateCreated))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "John Sketches", got.Name)
		assert.Equal(t, "45", got.Age)
		assert.Equal(t, "Engineer", got.Job)
		assert.WithinDuration(t, p.DateCreated, got.DateCreated, time.Second)
	})

	t.Run("missing measurements survive a round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := NewPatient("Ana")
		require.NoError(t, repo.Upsert(ctx, p))

		got, err := repo.Get(ctx, p.ID)
		require.NoError(t, err)
		right, err := got.RightEar.Values()
		require.NoError(t, err)
		assert.Equal(t, []float64{25, 30, 35, 40, 45}, right)

		require.NotNil(t, got.LeftEar[1])
		assert.Equal(t, 0.0, *got.LeftEar[1])
		assert.Nil(t, got.LeftEar[2])
		assert.Nil(t, got.LeftEar[4])
	})

	t.Run("upsert replaces existing record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		p := NewPatient("Maria")
		require.NoError(t, repo.Upsert(ctx, p))
		created := p.DateCreated

		p.Job = "Teacher"
		p.LeftEar[2] = audiometry.Level(50)
		require.NoError(t, repo.Upsert(ctx, p))

		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "Teacher", all[0].Job)
		require.NotNil(t, all[0].LeftEar[2])
		assert.Equal(t, 50.0, *all[0].LeftEar[2])
		assert.WithinDuration(t, created, all[0].DateCreated, time.Second)
	})

	t.Run("list is ordered by name ignoring case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, n := range []string{"zoe", "Bob", "alice", "Carlos"} {
			require.NoError(t, repo.Upsert(ctx, NewPatient(n)))
		}

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "Bob", "Carlos", "zoe"}, names(all))
	})

	t.Run("find by name substring", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, n := range []string{"Maria Lopez", "Mario Rossi", "Ann Smith", "100%_Sure"} {
			require.NoError(t, repo.Upsert(ctx, NewPatient(n)))
		}

		found, err := repo.FindByName(ctx, "  MARI ")
		require.NoError(t, err)
		assert.Equal(t, []string{"Maria Lopez", "Mario Rossi"}, names(found))

		found, err = repo.FindByName(ctx, "smith")
		require.NoError(t, err)
		assert.Equal(t, []string{"Ann Smith"}, names(found))

		found, err = repo.FindByName(ctx, "%_")
		require.NoError(t, err)
		assert.Equal(t, []string{"100%_Sure"}, names(found))

		found, err = repo.FindByName(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, found)

		found, err = repo.FindByName(ctx, "   ")
		require.NoError(t, err)
		assert.Len(t, found, 4)
	})

	t.Run("delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		keep, drop := NewPatient("Keep"), NewPatient("Drop")
		require.NoError(t, repo.Upsert(ctx, keep))
		require.NoError(t, repo.Upsert(ctx, drop))

		require.NoError(t, repo.Delete(ctx, drop.ID))
		_, err := repo.Get(ctx, drop.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, drop.ID), repository.ErrNotFound)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Keep"}, names(all))
	})

	t.Run("get unknown id", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
