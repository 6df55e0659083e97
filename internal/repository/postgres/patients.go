package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"time"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/pkg/audiometry"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/google/uuid"
)

//go:embed migrations/*.up.sql
var migrations embed.FS

const patientColumns = `id, name, age, job,
	right_500, right_1000, right_2000, right_4000, right_8000,
	left_500, left_1000, left_2000, left_4000, left_8000,
	date_created, date_modified`

// PostgresPatientRepository implements PatientRepository for PostgreSQL
type PostgresPatientRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresPatientRepository creates a new PostgreSQL patient repository
func NewPostgresPatientRepository(db *sql.DB) *PostgresPatientRepository {
	return &PostgresPatientRepository{db: db, now: time.Now}
}

// Migrate applies the embedded schema files in name order. Every file is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	files, err := fs.Glob(migrations, "migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, name := range files {
		stmt, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return nil
}

// List returns all patients ordered by name
func (r *PostgresPatientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	query := `SELECT ` + patientColumns + `
		FROM patients
		ORDER BY LOWER(name), name, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return scanPatients(rows)
}

// Get retrieves a patient by ID
func (r *PostgresPatientRepository) Get(ctx context.Context, id string) (*models.Patient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}

	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE id = $1`

	patient, err := scanPatient(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

// Upsert inserts a patient or replaces the row with the same ID
func (r *PostgresPatientRepository) Upsert(ctx context.Context, p *models.Patient) error {
	repository.Stamp(p, r.now())

	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			job = EXCLUDED.job,
			right_500 = EXCLUDED.right_500,
			right_1000 = EXCLUDED.right_1000,
			right_2000 = EXCLUDED.right_2000,
			right_4000 = EXCLUDED.right_4000,
			right_8000 = EXCLUDED.right_8000,
			left_500 = EXCLUDED.left_500,
			left_1000 = EXCLUDED.left_1000,
			left_2000 = EXCLUDED.left_2000,
			left_4000 = EXCLUDED.left_4000,
			left_8000 = EXCLUDED.left_8000,
			date_created = EXCLUDED.date_created,
			date_modified = EXCLUDED.date_modified`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Age,
		p.Job,
		p.RightEar[0], p.RightEar[1], p.RightEar[2], p.RightEar[3], p.RightEar[4],
		p.LeftEar[0], p.LeftEar[1], p.LeftEar[2], p.LeftEar[3], p.LeftEar[4],
		p.DateCreated,
		p.DateModified)
	if err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}
	return nil
}

// Delete removes a patient by ID
func (r *PostgresPatientRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return repository.ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// FindByName returns patients whose name contains text, ignoring case
func (r *PostgresPatientRepository) FindByName(ctx context.Context, text string) ([]*models.Patient, error) {
	q := repository.NormalizeQuery(text)
	if q == "" {
		return r.List(ctx)
	}

	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE LOWER(name) LIKE $1 ESCAPE '\'
		ORDER BY LOWER(name), name, id`

	rows, err := r.db.QueryContext(ctx, query, "%"+repository.EscapeLike(q)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search patients: %w", err)
	}
	return scanPatients(rows)
}

// Close closes the database handle
func (r *PostgresPatientRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*models.Patient, error) {
	var p models.Patient
	var right, left [audiometry.ProfileLength]sql.NullFloat64

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Job,
		&right[0], &right[1], &right[2], &right[3], &right[4],
		&left[0], &left[1], &left[2], &left[3], &left[4],
		&p.DateCreated,
		&p.DateModified)
	if err != nil {
		return nil, err
	}

	for i := range right {
		if right[i].Valid {
			p.RightEar[i] = audiometry.Level(right[i].Float64)
		}
		if left[i].Valid {
			p.LeftEar[i] = audiometry.Level(left[i].Float64)
		}
	}
	p.DateCreated = p.DateCreated.UTC()
	p.DateModified = p.DateModified.UTC()

	return &p, nil
}

func scanPatients(rows *sql.Rows) ([]*models.Patient, error) {
	defer rows.Close()

	patients := []*models.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}
