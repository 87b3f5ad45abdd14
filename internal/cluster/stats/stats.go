// Package stats arma el snapshot de estado de un nodo. Cada nodo lo sirve en
// su endpoint interno y la operación multi-nodo los agrega en un envelope.
package stats

import (
	"runtime"
	"time"

	"github.com/dropDatabas3/searchjohn/internal/index"
)

// NodeStats es el snapshot por nodo que viaja en /v1/cluster/nodes/stats.
type NodeStats struct {
	NodeID         string `json:"node_id"`
	Indices        int    `json:"indices"`
	Shards         int    `json:"shards"`
	Docs           int    `json:"docs"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	Goroutines     int    `json:"goroutines"`
	UptimeMs       int64  `json:"uptime_ms"`
}

// Collect toma el snapshot del nodo local.
func Collect(reg *index.Registry, nodeID string, started time.Time) *NodeStats {
	indices, shards, docs := reg.Totals()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &NodeStats{
		NodeID:         nodeID,
		Indices:        indices,
		Shards:         shards,
		Docs:           docs,
		HeapAllocBytes: mem.HeapAlloc,
		Goroutines:     runtime.NumGoroutine(),
		UptimeMs:       time.Since(started).Milliseconds(),
	}
}
