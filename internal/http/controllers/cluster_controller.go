package controllers

import (
	"net/http"

	httperrors "github.com/dropDatabas3/searchjohn/internal/http/errors"
	"github.com/dropDatabas3/searchjohn/internal/http/helpers"
	"github.com/dropDatabas3/searchjohn/internal/http/services"
)

// ClusterController expone la topología y las stats multi-nodo.
type ClusterController struct {
	svc *services.ClusterService
}

// NewClusterController crea el controller de cluster.
func NewClusterController(svc *services.ClusterService) *ClusterController {
	return &ClusterController{svc: svc}
}

// Nodes maneja GET /v1/cluster/nodes.
func (c *ClusterController) Nodes(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.svc.Nodes())
}

// NodesStats maneja GET /v1/cluster/nodes/stats: fan-out a todos los nodos y
// respuesta en envelope {"_nodes": ..., "cluster_name": ..., "nodes": {...}}.
// Un nodo caído no es un error del request: entra al header _nodes como fallo.
func (c *ClusterController) NodesStats(w http.ResponseWriter, r *http.Request) {
	env, err := c.svc.NodesStats(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, env)
}

// LocalStats maneja GET /v1/internal/nodes/local/stats: el snapshot que cada
// nodo sirve para el fan-out de NodesStats.
func (c *ClusterController) LocalStats(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.svc.LocalStats())
}
