// Package services contiene la lógica de orquestación entre el HTTP layer y
// el dominio (registry de índices, topología, fan-out multi-nodo).
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/cluster"
	"github.com/dropDatabas3/searchjohn/internal/cluster/stats"
	"github.com/dropDatabas3/searchjohn/internal/http/dto"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/observability/logger"
)

const statsCacheKey = "nodes_stats"

// ClusterService expone las operaciones de cluster: listado de nodos, stats
// del nodo local y agregación multi-nodo de stats.
type ClusterService struct {
	topo    *cluster.Topology
	bcast   *cluster.Broadcaster
	reg     *index.Registry
	started time.Time

	// cache TTL corto para el agregado multi-nodo: abarata dashboards que
	// pollean sin martillar a todos los nodos en cada request.
	cache *gocache.Cache
}

// NewClusterService arma el service. statsTTL <= 0 desactiva el cache.
func NewClusterService(topo *cluster.Topology, bcast *cluster.Broadcaster, reg *index.Registry, started time.Time, statsTTL time.Duration) *ClusterService {
	var c *gocache.Cache
	if statsTTL > 0 {
		c = gocache.New(statsTTL, 2*statsTTL)
	}
	return &ClusterService{
		topo:    topo,
		bcast:   bcast,
		reg:     reg,
		started: started,
		cache:   c,
	}
}

// Nodes devuelve la topología conocida, local primero.
func (s *ClusterService) Nodes() *dto.NodeListResponse {
	return &dto.NodeListResponse{
		ClusterName: s.topo.ClusterName(),
		Nodes:       s.topo.Nodes(),
	}
}

// LocalStats toma el snapshot del nodo local. Es lo que cada nodo sirve en el
// endpoint interno que consume el fan-out.
func (s *ClusterService) LocalStats() *stats.NodeStats {
	return stats.Collect(s.reg, s.topo.Local().ID, s.started)
}

// NodesStats hace fan-out de stats a todos los nodos y arma el envelope con
// el header _nodes. Un nodo caído entra como NodeFailure individual (los
// fallos de nodo no se agrupan: son pocos y cada uno importa por separado).
func (s *ClusterService) NodesStats(ctx context.Context) (*action.Envelope, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(statsCacheKey); ok {
			return v.(*action.Envelope), nil
		}
	}

	results, failures := s.bcast.GetAll(ctx, "/v1/internal/nodes/local/stats")

	body := &dto.NodesStatsBody{Nodes: make(map[string]*stats.NodeStats, len(results))}
	ok := 0
	for _, res := range results {
		var ns stats.NodeStats
		if err := json.Unmarshal(res.Body, &ns); err != nil {
			failures = append(failures, action.NewNodeFailure(res.Node.ID,
				fmt.Errorf("malformed stats payload: %w", err)))
			continue
		}
		body.Nodes[res.Node.ID] = &ns
		ok++
	}

	header, err := action.NodesHeaderFromOutcome(ok, failures)
	if err != nil {
		return nil, err
	}

	if header.Failed > 0 {
		logger.From(ctx).Warn("nodes stats fan-out with failures",
			logger.Cluster(s.topo.ClusterName()),
			logger.Failed(header.Failed),
			logger.Count(header.Total),
		)
	}

	env := action.NewEnvelope(header, s.topo.ClusterName(), body)
	if s.cache != nil {
		s.cache.Set(statsCacheKey, env, gocache.DefaultExpiration)
	}
	return env, nil
}
