// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockPatientRepository implements repository.PatientRepository for testing
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	args := m.Called(ctx)
	patients, _ := args.Get(0).([]*models.Patient)
	return patients, args.Error(1)
}

func (m *MockPatientRepository) Get(ctx context.Context, id string) (*models.Patient, error) {
	args := m.Called(ctx, id)
	patient, _ := args.Get(0).(*models.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientRepository) Upsert(ctx context.Context, patient *models.Patient) error {
	args := m.Called(ctx, patient)
	return args.Error(0)
}

func (m *MockPatientRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByName(ctx context.Context, text string) ([]*models.Patient, error) {
	args := m.Called(ctx, text)
	patients, _ := args.Get(0).([]*models.Patient)
	return patients, args.Error(1)
}

func (m *MockPatientRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
