package index

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dropDatabas3/searchjohn/internal/version"
)

// Document es un documento almacenado con su versión para OCC.
// Source se guarda tal cual llegó (JSON crudo).
type Document struct {
	ID      string          `json:"_id"`
	Version int64           `json:"_version"`
	Source  json.RawMessage `json:"_source"`
}

// Shard es una partición in-memory de un índice. Protegido por RWMutex:
// lecturas concurrentes, escrituras exclusivas.
type Shard struct {
	id int

	mu         sync.RWMutex
	docs       map[string]*Document
	generation uint64 // incrementa con cada refresh
	dirty      int    // escrituras desde el último flush
}

func newShard(id int) *Shard {
	return &Shard{id: id, docs: make(map[string]*Document)}
}

// ID devuelve el identificador del shard dentro del índice.
func (s *Shard) ID() int { return s.id }

// put inserta/actualiza un documento chequeando la versión esperada.
// expected == version.MatchAny aplica sin condición. Un expected explícito
// requiere que el documento exista con exactamente esa versión.
func (s *Shard) put(id string, source json.RawMessage, expected int64) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.docs[id]
	if !version.IsMatchAny(expected) {
		if cur == nil {
			return nil, fmt.Errorf("document [%s]: %w: expected version %d but no document stored", id, ErrVersionConflict, expected)
		}
		if cur.Version != expected {
			return nil, fmt.Errorf("document [%s]: %w: expected version %d but found %d", id, ErrVersionConflict, expected, cur.Version)
		}
	}

	next := int64(1)
	if cur != nil {
		next = cur.Version + 1
	}
	doc := &Document{ID: id, Version: next, Source: source}
	s.docs[id] = doc
	s.dirty++
	return doc, nil
}

func (s *Shard) get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.docs[id]
	if doc == nil {
		return nil, fmt.Errorf("document [%s]: %w", id, ErrDocNotFound)
	}
	return doc, nil
}

// delete borra un documento chequeando la versión esperada. Devuelve la
// versión que tenía el documento al borrarlo.
func (s *Shard) delete(id string, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.docs[id]
	if cur == nil {
		return 0, fmt.Errorf("document [%s]: %w", id, ErrDocNotFound)
	}
	if !version.IsMatchAny(expected) && cur.Version != expected {
		return 0, fmt.Errorf("document [%s]: %w: expected version %d but found %d", id, ErrVersionConflict, expected, cur.Version)
	}
	delete(s.docs, id)
	s.dirty++
	return cur.Version, nil
}

// refresh hace visible una nueva generación del shard.
func (s *Shard) refresh() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// flush marca el shard como persistido (acá solo resetea el contador de
// escrituras pendientes: no hay disco detrás).
func (s *Shard) flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.dirty
	s.dirty = 0
	return n
}

// ShardStats es el snapshot de un shard para _stats.
type ShardStats struct {
	Shard      int    `json:"shard"`
	Docs       int    `json:"docs"`
	SizeBytes  int64  `json:"size_bytes"`
	Generation uint64 `json:"generation"`
}

func (s *Shard) stats() *ShardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var size int64
	for _, d := range s.docs {
		size += int64(len(d.Source))
	}
	return &ShardStats{Shard: s.id, Docs: len(s.docs), SizeBytes: size, Generation: s.generation}
}

// each itera los documentos del shard bajo read-lock.
func (s *Shard) each(fn func(doc *Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		fn(d)
	}
}

func (s *Shard) docCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
