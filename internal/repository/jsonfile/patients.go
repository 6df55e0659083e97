// Package jsonfile stores all patients in a single JSON document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/rs/zerolog/log"
)

// errCorruptStore marks a store file that exists but cannot be decoded
var errCorruptStore = errors.New("corrupt patient store")

// JSONPatientRepository implements PatientRepository on top of one JSON file
type JSONPatientRepository struct {
	mu       sync.Mutex
	path     string
	patients []*models.Patient
	now      func() time.Time
}

// Options configures the JSON store
type Options struct {
	// Path of the store file, created on first write
	Path string
	// SeedPath is copied to Path on first run when Path does not exist yet
	SeedPath string
}

// NewJSONPatientRepository opens the store at opts.Path, seeding it first if needed.
// A store file that cannot be decoded is renamed to <path>.corrupt-<unix> and
// the store starts empty.
func NewJSONPatientRepository(opts Options) (*JSONPatientRepository, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("JSON_STORE_PATH is required")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	r := &JSONPatientRepository{path: opts.Path, now: time.Now}

	if opts.SeedPath != "" {
		if err := copySeedIfNeeded(opts.SeedPath, opts.Path); err != nil {
			log.Warn().Err(err).Str("seed", opts.SeedPath).Msg("Failed to copy sample patients")
		}
	}

	if err := r.load(); err != nil {
		r.patients = nil
		if !errors.Is(err, errCorruptStore) {
			return nil, err
		}
		aside := fmt.Sprintf("%s.corrupt-%d", opts.Path, r.now().Unix())
		if err := os.Rename(opts.Path, aside); err != nil {
			return nil, fmt.Errorf("failed to move unreadable store aside: %w", err)
		}
		log.Error().Err(err).Str("path", opts.Path).Str("moved_to", aside).Msg("Unreadable patient store moved aside, starting with an empty store")
	}
	log.Info().Int("count", len(r.patients)).Str("path", opts.Path).Msg("Loaded patients from JSON store")

	return r, nil
}

func copySeedIfNeeded(seedPath, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	src, err := os.Open(seedPath)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return fmt.Errorf("failed to copy seed file: %w", err)
	}
	log.Info().Str("seed", seedPath).Str("path", path).Msg("Copied sample patients")
	return dst.Close()
}

func (r *JSONPatientRepository) load() error {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.patients = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}

	var patients []*models.Patient
	if err := json.Unmarshal(data, &patients); err != nil {
		return fmt.Errorf("%w: %v", errCorruptStore, err)
	}
	r.patients = patients
	return nil
}

// save writes the whole document to a temp file and renames it into place
func (r *JSONPatientRepository) save() error {
	data, err := json.MarshalIndent(r.patients, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode patients: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".patients-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

// List returns all patients ordered by name
func (r *JSONPatientRepository) List(ctx context.Context) ([]*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(*models.Patient) bool { return true }), nil
}

// Get returns a copy of the patient with the given ID
func (r *JSONPatientRepository) Get(ctx context.Context, id string) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		return r.patients[i].Clone(), nil
	}
	return nil, repository.ErrNotFound
}

// Upsert inserts a new patient or replaces the one with the same ID
func (r *JSONPatientRepository) Upsert(ctx context.Context, patient *models.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	repository.Stamp(patient, r.now())
	stored := patient.Clone()

	prev := r.patients
	if i := r.indexOf(patient.ID); i >= 0 {
		next := make([]*models.Patient, len(prev))
		copy(next, prev)
		next[i] = stored
		r.patients = next
	} else {
		r.patients = append(prev[:len(prev):len(prev)], stored)
	}

	if err := r.save(); err != nil {
		r.patients = prev
		return err
	}
	return nil
}

// Delete removes the patient with the given ID
func (r *JSONPatientRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}

	prev := r.patients
	next := make([]*models.Patient, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	next = append(next, prev[i+1:]...)
	r.patients = next

	if err := r.save(); err != nil {
		r.patients = prev
		return err
	}
	return nil
}

// FindByName returns patients whose name contains text, ignoring case
func (r *JSONPatientRepository) FindByName(ctx context.Context, text string) ([]*models.Patient, error) {
	query := repository.NormalizeQuery(text)
	if query == "" {
		return r.List(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(p *models.Patient) bool { return repository.MatchesName(p, query) }), nil
}

// Close is a no-op; every write is already on disk
func (r *JSONPatientRepository) Close() error {
	return nil
}

func (r *JSONPatientRepository) indexOf(id string) int {
	for i, p := range r.patients {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (r *JSONPatientRepository) snapshot(keep func(*models.Patient) bool) []*models.Patient {
	out := make([]*models.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	repository.SortByName(out)
	return out
}
