// Package sqlite stores patients in an embedded SQLite database through GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// patientRow is the table layout; one nullable column per tested frequency
type patientRow struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"index;not null"`
	Age          string
	Job          string
	Right500     *float64 `gorm:"column:right_500"`
	Right1000    *float64 `gorm:"column:right_1000"`
	Right2000    *float64 `gorm:"column:right_2000"`
	Right4000    *float64 `gorm:"column:right_4000"`
	Right8000    *float64 `gorm:"column:right_8000"`
	Left500      *float64 `gorm:"column:left_500"`
	Left1000     *float64 `gorm:"column:left_1000"`
	Left2000     *float64 `gorm:"column:left_2000"`
	Left4000     *float64 `gorm:"column:left_4000"`
	Left8000     *float64 `gorm:"column:left_8000"`
	DateCreated  time.Time
	DateModified time.Time
}

func (patientRow) TableName() string { return "patients" }

func toRow(p *models.Patient) patientRow {
	return patientRow{
		ID:           p.ID,
		Name:         p.Name,
		Age:          p.Age,
		Job:          p.Job,
		Right500:     p.RightEar[0],
		Right1000:    p.RightEar[1],
		Right2000:    p.RightEar[2],
		Right4000:    p.RightEar[3],
		Right8000:    p.RightEar[4],
		Left500:      p.LeftEar[0],
		Left1000:     p.LeftEar[1],
		Left2000:     p.LeftEar[2],
		Left4000:     p.LeftEar[3],
		Left8000:     p.LeftEar[4],
		DateCreated:  p.DateCreated,
		DateModified: p.DateModified,
	}
}

func (r patientRow) toModel() *models.Patient {
	return &models.Patient{
		ID:           r.ID,
		Name:         r.Name,
		Age:          r.Age,
		Job:          r.Job,
		RightEar:     audiometry.Profile{r.Right500, r.Right1000, r.Right2000, r.Right4000, r.Right8000},
		LeftEar:      audiometry.Profile{r.Left500, r.Left1000, r.Left2000, r.Left4000, r.Left8000},
		DateCreated:  r.DateCreated.UTC(),
		DateModified: r.DateModified.UTC(),
	}
}

// SQLitePatientRepository implements PatientRepository for SQLite
type SQLitePatientRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLitePatientRepository opens (and migrates) the database file at path
func NewSQLitePatientRepository(path string, debug bool) (*SQLitePatientRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLITE_PATH is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	level := logger.Silent
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.AutoMigrate(&patientRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate SQLite database: %w", err)
	}
	log.Info().Str("path", path).Msg("Opened SQLite patient store")

	return &SQLitePatientRepository{db: db, now: time.Now}, nil
}

// List returns all patients ordered by name
func (r *SQLitePatientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	return r.find(r.db.WithContext(ctx))
}

// Get retrieves a patient by ID
func (r *SQLitePatientRepository) Get(ctx context.Context, id string) (*models.Patient, error) {
	var row patientRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return row.toModel(), nil
}

// Upsert inserts the patient or overwrites the row with the same ID
func (r *SQLitePatientRepository) Upsert(ctx context.Context, patient *models.Patient) error {
	repository.Stamp(patient, r.now())
	row := toRow(patient)

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}
	return nil
}

// Delete removes a patient by ID
func (r *SQLitePatientRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&patientRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete patient: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindByName returns patients whose name contains text, ignoring case
func (r *SQLitePatientRepository) FindByName(ctx context.Context, text string) ([]*models.Patient, error) {
	query := repository.NormalizeQuery(text)
	if query == "" {
		return r.List(ctx)
	}
	pattern := "%" + repository.EscapeLike(query) + "%"
	return r.find(r.db.WithContext(ctx).Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern))
}

// Close closes the underlying connection pool
func (r *SQLitePatientRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *SQLitePatientRepository) find(tx *gorm.DB) ([]*models.Patient, error) {
	var rows []patientRow
	if err := tx.Order("LOWER(name), name, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	patients := make([]*models.Patient, len(rows))
	for i, row := range rows {
		patients[i] = row.toModel()
	}
	return patients, nil
}
