package index

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// nombres de índice: lowercase, empiezan con alfanumérico
var indexNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,127}$`)

// Registry administra los índices del nodo. Thread-safe; devuelve los *Index
// vivos (el índice maneja su propia concurrencia interna).
type Registry struct {
	mu        sync.RWMutex
	indices   map[string]*Index
	numShards int
}

// NewRegistry crea un registry vacío. numShards es la cantidad de shards con
// la que se crea cada índice nuevo.
func NewRegistry(numShards int) *Registry {
	if numShards <= 0 {
		numShards = 1
	}
	return &Registry{indices: make(map[string]*Index), numShards: numShards}
}

// Create crea un índice con el nombre dado y los shards default del nodo.
func (r *Registry) Create(name string) (*Index, error) {
	return r.CreateWithShards(name, 0)
}

// CreateWithShards crea un índice con una cantidad de shards específica.
// numShards <= 0 usa el default del registry.
func (r *Registry) CreateWithShards(name string, numShards int) (*Index, error) {
	if !indexNameRe.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if numShards <= 0 {
		numShards = r.numShards
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.indices[name]; ok {
		return nil, fmt.Errorf("index [%s]: %w", name, ErrIndexExists)
	}
	ix := New(name, numShards)
	r.indices[name] = ix
	return ix, nil
}

// Get devuelve un índice por nombre.
func (r *Registry) Get(name string) (*Index, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ix, ok := r.indices[name]
	if !ok {
		return nil, fmt.Errorf("index [%s]: %w", name, ErrIndexNotFound)
	}
	return ix, nil
}

// Delete elimina un índice.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.indices[name]; !ok {
		return fmt.Errorf("index [%s]: %w", name, ErrIndexNotFound)
	}
	delete(r.indices, name)
	return nil
}

// Names lista los nombres de índice ordenados.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.indices))
	for n := range r.indices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Totals devuelve (índices, shards, documentos) del nodo, para node stats.
func (r *Registry) Totals() (indices, shards, docs int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ix := range r.indices {
		indices++
		shards += ix.NumShards()
		docs += ix.DocCount()
	}
	return indices, shards, docs
}
