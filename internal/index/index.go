// Package index implementa el store de documentos particionado en shards
// in-memory. El ruteo documento→shard usa FNV-1a, así el mismo id cae siempre
// en el mismo shard. Las operaciones broadcast (_refresh, _flush, _stats,
// _search) corren contra todos los shards y reportan el resultado por unidad:
// un shard que falla es un dato del resultado, nunca aborta a los demás.
package index

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/index/query"
)

// Index es un conjunto fijo de shards con un nombre. El número de shards se
// define al crearlo y no cambia.
type Index struct {
	name      string
	createdAt time.Time
	closed    atomic.Bool
	shards    []*Shard
}

// New crea un índice con numShards shards vacíos.
func New(name string, numShards int) *Index {
	ix := &Index{name: name, createdAt: time.Now()}
	ix.shards = make([]*Shard, numShards)
	for i := range ix.shards {
		ix.shards[i] = newShard(i)
	}
	return ix
}

// Name devuelve el nombre del índice.
func (ix *Index) Name() string { return ix.name }

// NumShards devuelve la cantidad de shards.
func (ix *Index) NumShards() int { return len(ix.shards) }

// CreatedAt devuelve el momento de creación.
func (ix *Index) CreatedAt() time.Time { return ix.createdAt }

// Close deja el índice cerrado: las operaciones de documento fallan y las
// broadcast reportan fallo por shard.
func (ix *Index) Close() { ix.closed.Store(true) }

// Open reabre el índice.
func (ix *Index) Open() { ix.closed.Store(false) }

// Closed reporta si el índice está cerrado.
func (ix *Index) Closed() bool { return ix.closed.Load() }

// routeShard mapea un id de documento a su shard (FNV-1a, determinístico).
func (ix *Index) routeShard(id string) *Shard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return ix.shards[int(h.Sum32())%len(ix.shards)]
}

// ─────────────── Operaciones de documento ───────────────

// Put inserta/actualiza un documento. expected es la versión esperada para
// OCC (version.MatchAny = sin condición).
func (ix *Index) Put(id string, source json.RawMessage, expected int64) (*Document, error) {
	if ix.Closed() {
		return nil, fmt.Errorf("index [%s]: %w", ix.name, ErrIndexClosed)
	}
	return ix.routeShard(id).put(id, source, expected)
}

// Get devuelve un documento por id.
func (ix *Index) Get(id string) (*Document, error) {
	if ix.Closed() {
		return nil, fmt.Errorf("index [%s]: %w", ix.name, ErrIndexClosed)
	}
	return ix.routeShard(id).get(id)
}

// Delete borra un documento chequeando la versión esperada. Devuelve la
// versión que tenía el documento al momento del borrado.
func (ix *Index) Delete(id string, expected int64) (int64, error) {
	if ix.Closed() {
		return 0, fmt.Errorf("index [%s]: %w", ix.name, ErrIndexClosed)
	}
	return ix.routeShard(id).delete(id, expected)
}

// ─────────────── Operaciones broadcast ───────────────

// BroadcastResult es el resultado crudo de correr una operación sobre todos
// los shards: cuántos respondieron bien y el fallo de cada uno que no.
// Total = Successful + len(Failures) siempre.
type BroadcastResult struct {
	Total      int
	Successful int
	Failures   []*action.ShardFailure
}

// broadcast corre fn sobre cada shard y junta los resultados. Un error de fn
// se vuelve ShardFailure; no interrumpe a los shards restantes.
func (ix *Index) broadcast(fn func(s *Shard) error) *BroadcastResult {
	res := &BroadcastResult{Total: len(ix.shards)}

	if ix.Closed() {
		// misma causa para todos los shards: agrupa en una sola entrada
		closedErr := fmt.Errorf("index [%s]: %w", ix.name, ErrIndexClosed)
		for _, s := range ix.shards {
			res.Failures = append(res.Failures,
				action.NewShardFailure(ix.name, s.id, http.StatusBadRequest, closedErr))
		}
		return res
	}

	for _, s := range ix.shards {
		if err := fn(s); err != nil {
			res.Failures = append(res.Failures,
				action.NewShardFailure(ix.name, s.id, http.StatusInternalServerError, err))
			continue
		}
		res.Successful++
	}
	return res
}

// Refresh hace visible una nueva generación en cada shard.
func (ix *Index) Refresh() *BroadcastResult {
	return ix.broadcast(func(s *Shard) error {
		s.refresh()
		return nil
	})
}

// FlushResult agrega al broadcast la cantidad de escrituras drenadas.
type FlushResult struct {
	*BroadcastResult
	Flushed int
}

// Flush drena las escrituras pendientes de cada shard.
func (ix *Index) Flush() *FlushResult {
	var mu sync.Mutex
	flushed := 0
	br := ix.broadcast(func(s *Shard) error {
		n := s.flush()
		mu.Lock()
		flushed += n
		mu.Unlock()
		return nil
	})
	return &FlushResult{BroadcastResult: br, Flushed: flushed}
}

// StatsResult es el snapshot por shard más los totales del índice.
type StatsResult struct {
	*BroadcastResult
	Docs      int
	SizeBytes int64
	Shards    []*ShardStats
}

// Stats junta el snapshot de cada shard.
func (ix *Index) Stats() *StatsResult {
	var mu sync.Mutex
	out := &StatsResult{}
	out.BroadcastResult = ix.broadcast(func(s *Shard) error {
		st := s.stats()
		mu.Lock()
		out.Docs += st.Docs
		out.SizeBytes += st.SizeBytes
		out.Shards = append(out.Shards, st)
		mu.Unlock()
		return nil
	})
	sort.Slice(out.Shards, func(i, j int) bool { return out.Shards[i].Shard < out.Shards[j].Shard })
	return out
}

// Hit es un documento que matcheó una búsqueda.
type Hit struct {
	Index   string          `json:"_index"`
	ID      string          `json:"_id"`
	Version int64           `json:"_version"`
	Source  json.RawMessage `json:"_source"`
}

// SearchResult agrega los hits de todos los shards al broadcast.
type SearchResult struct {
	*BroadcastResult
	TotalHits int
	Hits      []*Hit
}

// Search evalúa q contra cada shard. q == nil es match-all. size limita los
// hits devueltos (<=0: sin límite); TotalHits siempre refleja el total que
// matcheó. Los hits se ordenan por id para que el resultado sea determinístico
// sin importar el orden de iteración de los shards.
func (ix *Index) Search(q *query.Query, size int) *SearchResult {
	var mu sync.Mutex
	out := &SearchResult{}
	out.BroadcastResult = ix.broadcast(func(s *Shard) error {
		var shardErr error
		s.each(func(d *Document) {
			if shardErr != nil {
				return
			}
			ok := true
			if q != nil {
				var err error
				ok, err = q.Matches(d.Source)
				if err != nil {
					shardErr = fmt.Errorf("search on shard %d: %w", s.id, err)
					return
				}
			}
			if ok {
				mu.Lock()
				out.Hits = append(out.Hits, &Hit{Index: ix.name, ID: d.ID, Version: d.Version, Source: d.Source})
				mu.Unlock()
			}
		})
		return shardErr
	})

	sort.Slice(out.Hits, func(i, j int) bool { return out.Hits[i].ID < out.Hits[j].ID })
	out.TotalHits = len(out.Hits)
	if size > 0 && len(out.Hits) > size {
		out.Hits = out.Hits[:size]
	}
	return out
}

// DocCount devuelve la cantidad total de documentos del índice.
func (ix *Index) DocCount() int {
	n := 0
	for _, s := range ix.shards {
		n += s.docCount()
	}
	return n
}
