// Package dto contiene los tipos de request/response de la API REST.
package dto

import "time"

// CreateIndexRequest es el body opcional de PUT /v1/indices/{index}.
type CreateIndexRequest struct {
	// Shards por índice; 0 usa el default del nodo.
	NumShards int `json:"num_shards,omitempty"`
}

// CreateIndexResponse confirma la creación de un índice.
type CreateIndexResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Index        string `json:"index"`
	NumShards    int    `json:"num_shards"`
}

// IndexInfoResponse describe un índice existente.
type IndexInfoResponse struct {
	Index     string    `json:"index"`
	NumShards int       `json:"num_shards"`
	Docs      int       `json:"docs"`
	Closed    bool      `json:"closed"`
	CreatedAt time.Time `json:"created_at"`
}

// AcknowledgedResponse es la respuesta genérica de operaciones de gestión
// (delete, close, open).
type AcknowledgedResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// IndexListResponse lista los índices del nodo.
type IndexListResponse struct {
	Indices []string `json:"indices"`
}
