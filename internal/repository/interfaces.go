package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/audiometry/pkg/models"
)

// ErrNotFound is returned when no patient has the requested ID
var ErrNotFound = errors.New("patient not found")

// PatientRepository defines the interface for patient record operations.
// Listings are ordered by name, case-insensitively.
type PatientRepository interface {
	List(ctx context.Context) ([]*models.Patient, error)
	Get(ctx context.Context, id string) (*models.Patient, error)
	Upsert(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, id string) error
	FindByName(ctx context.Context, text string) ([]*models.Patient, error)
	Close() error
}
