package dto

import (
	"github.com/dropDatabas3/searchjohn/internal/cluster"
	"github.com/dropDatabas3/searchjohn/internal/cluster/stats"
)

// NodeListResponse es la respuesta de GET /v1/cluster/nodes.
type NodeListResponse struct {
	ClusterName string             `json:"cluster_name"`
	Nodes       []cluster.NodeInfo `json:"nodes"`
}

// NodesStatsBody es el body que se aplana dentro del envelope de
// GET /v1/cluster/nodes/stats: mapa node_id -> stats del nodo.
type NodesStatsBody struct {
	Nodes map[string]*stats.NodeStats `json:"nodes"`
}
