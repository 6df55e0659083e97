// Package autosave debounces form edits into record store writes.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/RMahshie/audiometry/internal/repository"
	"github.com/RMahshie/audiometry/pkg/models"
	"github.com/rs/zerolog/log"
)

// DefaultDelay is how long edits are coalesced before writing
const DefaultDelay = time.Second

// ErrClosed is returned when scheduling on a closed Saver
var ErrClosed = errors.New("autosave closed")

type pendingSave struct {
	patient *models.Patient
	timer   *time.Timer
}

// Saver coalesces writes per patient ID; the last scheduled record wins.
// Writes for the same ID never overlap and run in scheduling order.
type Saver struct {
	repo  repository.PatientRepository
	delay time.Duration

	mu       sync.Mutex
	pending  map[string]*pendingSave
	writing  map[string]chan struct{} // closed when the latest write for the ID finishes
	inflight sync.WaitGroup
	closed   bool
}

// New creates a Saver writing to repo after delay of inactivity
func New(repo repository.PatientRepository, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{
		repo:    repo,
		delay:   delay,
		pending: make(map[string]*pendingSave),
		writing: make(map[string]chan struct{}),
	}
}

// Schedule queues patient for writing, replacing any pending write for the
// same ID and restarting its timer. The record must already have an ID.
func (s *Saver) Schedule(patient *models.Patient) error {
	if patient.ID == "" {
		return errors.New("autosave requires a patient ID")
	}
	snapshot := patient.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if p, ok := s.pending[snapshot.ID]; ok {
		p.timer.Stop()
	}

	id := snapshot.ID
	p := &pendingSave{patient: snapshot}
	p.timer = time.AfterFunc(s.delay, func() { s.fire(id, p) })
	s.pending[id] = p
	return nil
}

// Pending returns the number of records waiting to be written
func (s *Saver) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Cancel drops the pending write for id, if any, and reports whether one
// was dropped. A write for id that already started is waited for, so a
// caller writing the record afterwards always has the last word.
func (s *Saver) Cancel(id string) bool {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
	running := s.writing[id]
	s.mu.Unlock()

	if running != nil {
		<-running
	}
	return ok
}

// fire writes p if it is still the latest pending save for id
func (s *Saver) fire(id string, p *pendingSave) {
	s.mu.Lock()
	if s.pending[id] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	prev, done := s.startWrite(id)
	s.mu.Unlock()

	s.runWrite(context.Background(), id, p.patient, prev, done)
}

// startWrite registers a write for id and returns the channel of the write
// it must wait for. Callers hold s.mu.
func (s *Saver) startWrite(id string) (prev, done chan struct{}) {
	prev = s.writing[id]
	done = make(chan struct{})
	s.writing[id] = done
	s.inflight.Add(1)
	return prev, done
}

func (s *Saver) runWrite(ctx context.Context, id string, patient *models.Patient, prev, done chan struct{}) error {
	defer s.inflight.Done()
	defer func() {
		s.mu.Lock()
		if s.writing[id] == done {
			delete(s.writing, id)
		}
		s.mu.Unlock()
		close(done)
	}()

	if prev != nil {
		<-prev
	}
	return s.write(ctx, patient)
}

func (s *Saver) write(ctx context.Context, patient *models.Patient) error {
	if err := s.repo.Upsert(ctx, patient); err != nil {
		log.Error().Err(err).Str("patientID", patient.ID).Msg("Autosave failed")
		return err
	}
	log.Debug().Str("patientID", patient.ID).Msg("Autosaved patient")
	return nil
}

// Flush writes every record pending at the time of the call and returns how
// many were written. When ctx ends, records not yet started stay pending;
// a started write always completes. The first error is returned after all
// writes have been attempted.
func (s *Saver) Flush(ctx context.Context) (int, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	var firstErr error
	written := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		s.mu.Lock()
		p, ok := s.pending[id]
		if !ok {
			// fired or cancelled since the snapshot
			s.mu.Unlock()
			continue
		}
		p.timer.Stop()
		delete(s.pending, id)
		prev, done := s.startWrite(id)
		s.mu.Unlock()

		if err := s.runWrite(context.WithoutCancel(ctx), id, p.patient, prev, done); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written++
	}
	return written, firstErr
}

// Close rejects new work, flushes pending writes and waits for in-flight
// ones. Records left pending because ctx ended are still written when their
// timers fire.
func (s *Saver) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	_, err := s.Flush(ctx)

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
