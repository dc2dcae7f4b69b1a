package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
	"github.com/akolanti/CareerRAG/pkg/logger_i"
)

// Registry owns the process-wide university map. It is injected into the
// handlers and the rag service instead of living as package globals so the
// unique-name and populate-once invariants can be guarded here.
type Registry struct {
	lock     *sync.RWMutex
	datasets map[string]*recordModel.Dataset

	// uniLocks serializes the populate-if-empty check-then-act per university.
	uniLockGuard *sync.Mutex
	uniLocks     map[string]*sync.Mutex

	logger *logger_i.Logger
}

func InitRegistry() *Registry {
	return &Registry{
		lock:         new(sync.RWMutex),
		datasets:     make(map[string]*recordModel.Dataset),
		uniLockGuard: new(sync.Mutex),
		uniLocks:     make(map[string]*sync.Mutex),
		logger:       logger_i.NewLogger("UniversityRegistry"),
	}
}

// Add registers a new dataset. Duplicate names are a conflict - the caller
// decides whether that is an upload error or a preload skip.
func (r *Registry) Add(dataset *recordModel.Dataset) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.datasets[dataset.Name]; exists {
		return fmt.Errorf("university '%s': %w", dataset.Name, apperrors.ErrConflict)
	}
	r.datasets[dataset.Name] = dataset
	r.logger.Info("Registered university", "name", dataset.Name, "records", len(dataset.Records))
	return nil
}

func (r *Registry) Get(name string) (*recordModel.Dataset, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	dataset, ok := r.datasets[name]
	return dataset, ok
}

func (r *Registry) Delete(name string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.datasets[name]; !exists {
		return fmt.Errorf("university '%s': %w", name, apperrors.ErrNotFound)
	}
	delete(r.datasets, name)
	r.logger.Info("Removed university", "name", name)
	return nil
}

// List returns name + record count snapshots sorted by name.
func (r *Registry) List() []recordModel.Dataset {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]recordModel.Dataset, 0, len(r.datasets))
	for _, dataset := range r.datasets {
		list = append(list, recordModel.Dataset{Name: dataset.Name, Records: dataset.Records})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func (r *Registry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.datasets)
}

// UniversityLock hands out the named mutex guarding that university's
// collection population. Locks are never removed - the set of names a
// process sees is small.
func (r *Registry) UniversityLock(name string) *sync.Mutex {
	r.uniLockGuard.Lock()
	defer r.uniLockGuard.Unlock()
	lock, exists := r.uniLocks[name]
	if !exists {
		lock = new(sync.Mutex)
		r.uniLocks[name] = lock
	}
	return lock
}
