package cluster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/metrics"
)

const defaultFanoutTimeout = 5 * time.Second

// NodeResult es la respuesta cruda de un nodo que contestó bien.
type NodeResult struct {
	Node NodeInfo
	Body json.RawMessage
}

// Broadcaster hace fan-out HTTP a todos los nodos del cluster (incluido el
// local, por loopback) y junta respuestas y fallos por nodo. Un nodo caído es
// un dato del resultado, no un error de la operación: el caller arma el header
// _nodes con lo que haya.
type Broadcaster struct {
	topo    *Topology
	client  *http.Client
	timeout time.Duration
}

// NewBroadcaster crea un broadcaster sobre la topología dada. timeout <= 0 usa
// el default.
func NewBroadcaster(topo *Topology, timeout time.Duration) *Broadcaster {
	if timeout <= 0 {
		timeout = defaultFanoutTimeout
	}
	return &Broadcaster{
		topo:    topo,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// GetAll hace GET de path en cada nodo, en paralelo. Devuelve las respuestas
// exitosas y los fallos, ambos en orden de topología (local primero) para que
// el resultado sea determinístico.
func (b *Broadcaster) GetAll(ctx context.Context, path string) ([]NodeResult, []*action.NodeFailure) {
	nodes := b.topo.Nodes()
	results := make([]*NodeResult, len(nodes))
	errs := make([]error, len(nodes))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			var body json.RawMessage
			if err := b.getJSON(gctx, node, path, &body); err != nil {
				errs[i] = err
				return nil // el fallo de un nodo no cancela a los demás
			}
			results[i] = &NodeResult{Node: node, Body: body}
			return nil
		})
	}
	_ = g.Wait()
	metrics.NodeFanoutDuration.Observe(time.Since(start).Seconds())

	ok := make([]NodeResult, 0, len(nodes))
	var failures []*action.NodeFailure
	for i, node := range nodes {
		if errs[i] != nil {
			failures = append(failures, action.NewNodeFailure(node.ID, errs[i]))
			metrics.NodeFanoutTotal.WithLabelValues("failed").Inc()
			continue
		}
		ok = append(ok, *results[i])
		metrics.NodeFanoutTotal.WithLabelValues("ok").Inc()
	}
	return ok, failures
}

// getJSON hace un GET con contexto y decodifica el body JSON en out.
func (b *Broadcaster) getJSON(ctx context.Context, node NodeInfo, path string, out any) error {
	url := "http://" + node.Addr + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("node [%s]: %w", node.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("node [%s]: http %s: %d", node.ID, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("node [%s]: decode response: %w", node.ID, err)
	}
	return nil
}
