package dto

import "encoding/json"

// PutDocumentResponse confirma una indexación o actualización.
type PutDocumentResponse struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	// "created" o "updated"
	Result string `json:"result"`
}

// GetDocumentResponse devuelve un documento con sus metadatos.
type GetDocumentResponse struct {
	Index   string          `json:"_index"`
	ID      string          `json:"_id"`
	Version int64           `json:"_version"`
	Source  json.RawMessage `json:"_source"`
}

// DeleteDocumentResponse confirma un borrado.
type DeleteDocumentResponse struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	Result  string `json:"result"`
}
