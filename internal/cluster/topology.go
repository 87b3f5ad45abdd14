// Package cluster maneja la topología estática del cluster y el fan-out HTTP
// a los nodos pares. La membership es fija por configuración: no hay
// consenso ni discovery: un nodo caído simplemente aparece como NodeFailure
// en las respuestas multi-nodo.
package cluster

import "fmt"

// NodeInfo identifica un nodo del cluster.
type NodeInfo struct {
	ID   string `json:"id" yaml:"id"`
	Addr string `json:"addr" yaml:"addr"` // host:port base para la API HTTP
}

// Topology es el conjunto fijo de nodos del cluster visto desde este proceso.
// Inmutable después de construida.
type Topology struct {
	clusterName string
	local       NodeInfo
	peers       []NodeInfo
}

// NewTopology arma la topología desde config. peers NO incluye al nodo local.
func NewTopology(clusterName string, local NodeInfo, peers []NodeInfo) (*Topology, error) {
	if clusterName == "" {
		return nil, fmt.Errorf("cluster name is required")
	}
	if local.ID == "" {
		return nil, fmt.Errorf("local node id is required")
	}
	for _, p := range peers {
		if p.ID == "" || p.Addr == "" {
			return nil, fmt.Errorf("peer needs id and addr: %+v", p)
		}
		if p.ID == local.ID {
			return nil, fmt.Errorf("peer %s duplicates the local node id", p.ID)
		}
	}
	cp := make([]NodeInfo, len(peers))
	copy(cp, peers)
	return &Topology{clusterName: clusterName, local: local, peers: cp}, nil
}

// ClusterName devuelve el nombre del cluster (va en "cluster_name" de cada
// envelope multi-nodo).
func (t *Topology) ClusterName() string { return t.clusterName }

// Local devuelve el nodo local.
func (t *Topology) Local() NodeInfo { return t.local }

// Peers devuelve una copia de los nodos pares.
func (t *Topology) Peers() []NodeInfo {
	cp := make([]NodeInfo, len(t.peers))
	copy(cp, t.peers)
	return cp
}

// Nodes devuelve todos los nodos, local primero, en orden estable.
func (t *Topology) Nodes() []NodeInfo {
	out := make([]NodeInfo, 0, 1+len(t.peers))
	out = append(out, t.local)
	out = append(out, t.peers...)
	return out
}

// Size devuelve la cantidad total de nodos.
func (t *Topology) Size() int { return 1 + len(t.peers) }
