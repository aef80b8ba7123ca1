package ability

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// ErrNotFound is returned by lookups that miss.
var ErrNotFound = errors.New("ability: not found")

// Registry is the process-wide collection of ability records, ordered by
// insertion. Lookups are linear scans; the expected population is low
// hundreds of records.
//
// All methods are safe for concurrent use. Single-writer editing of any
// one record is enforced by the editor's concurrency guard, not here.
type Registry struct {
	mu      sync.RWMutex
	records []*Ability
	logger  *zap.Logger
}

// NewRegistry creates an empty Registry.
//
// Precondition: logger must be non-nil.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger}
}

// Load clears the registry and repopulates it from the store at path.
//
// Precondition: path must name a readable store file.
// Postcondition: On success the registry holds exactly the decoded records.
// An unreadable store is a fatal boot condition for the caller.
func (r *Registry) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ability store %q: %w", path, err)
	}
	defer f.Close()

	decoded, err := NewDecoder(f, path, r.logger).DecodeAll()
	if err != nil {
		return fmt.Errorf("decoding ability store %q: %w", path, err)
	}

	r.mu.Lock()
	r.records = decoded
	r.mu.Unlock()

	r.logger.Info("loaded abilities",
		zap.String("file", path),
		zap.Int("count", len(decoded)),
	)
	return nil
}

// Save serializes every record in registry order to the store at path.
//
// Postcondition: Returns the number of records written. A store that
// cannot be opened for writing is logged and returned as an error; the
// in-memory registry stays authoritative.
func (r *Registry) Save(path string) (int, error) {
	r.mu.RLock()
	records := make([]*Ability, len(r.records))
	copy(records, r.records)
	r.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		r.logger.Error("cannot open ability store for writing",
			zap.String("file", path),
			zap.Error(err),
		)
		return 0, fmt.Errorf("opening ability store %q for writing: %w", path, err)
	}
	if err := EncodeAll(f, records); err != nil {
		f.Close()
		return 0, fmt.Errorf("encoding ability store %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing ability store %q: %w", path, err)
	}

	r.logger.Info("saved abilities",
		zap.String("file", path),
		zap.Int("count", len(records)),
	)
	return len(records), nil
}

// GetByID returns the record with the given id.
//
// Postcondition: Returns (record, true) if found, or (nil, false).
func (r *Registry) GetByID(id int) (*Ability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.records {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// GetByName returns the record whose name matches case-insensitively.
//
// Postcondition: Returns (record, true) if found, or (nil, false).
func (r *Registry) GetByName(name string) (*Ability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.records {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return nil, false
}

// Add appends a record.
//
// Precondition: ab must be non-nil with a positive id.
// Postcondition: Returns an error if the id is already present; the
// registry is unchanged on error.
func (r *Registry) Add(ab *Ability) error {
	if ab.ID <= 0 {
		return fmt.Errorf("ability: add with non-positive id %d", ab.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.records {
		if a.ID == ab.ID {
			return fmt.Errorf("ability: duplicate id %d", ab.ID)
		}
	}
	r.records = append(r.records, ab)
	return nil
}

// Remove deletes the record with the given id.
//
// Postcondition: Returns ErrNotFound if no record has the id.
func (r *Registry) Remove(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.records {
		if a.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("ability: remove id %d: %w", id, ErrNotFound)
}

// Replace swaps the stored record with the same id for ab.
//
// Postcondition: Returns ErrNotFound if no record has ab.ID.
func (r *Registry) Replace(ab *Ability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.records {
		if a.ID == ab.ID {
			r.records[i] = ab
			return nil
		}
	}
	return fmt.Errorf("ability: replace id %d: %w", ab.ID, ErrNotFound)
}

// All returns a snapshot of every record in insertion order.
func (r *Registry) All() []*Ability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Ability, len(r.records))
	copy(out, r.records)
	return out
}

// Count returns the number of records.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// NextID returns the smallest unused positive id.
//
// Postcondition: Returns an id not held by any current record.
func (r *Registry) NextID() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	used := make(map[int]bool, len(r.records))
	for _, a := range r.records {
		used[a.ID] = true
	}
	id := 1
	for used[id] {
		id++
	}
	return id
}
