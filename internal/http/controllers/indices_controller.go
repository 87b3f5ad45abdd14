// Package controllers contiene los controllers HTTP de la API REST.
// Siguen el patrón struct + métodos handler; el ruteo vive en router.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/searchjohn/internal/http/dto"
	httperrors "github.com/dropDatabas3/searchjohn/internal/http/errors"
	"github.com/dropDatabas3/searchjohn/internal/http/helpers"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/observability/logger"
)

// IndicesController maneja el ciclo de vida de los índices.
type IndicesController struct {
	reg     *index.Registry
	maxBody int64
}

// NewIndicesController crea el controller de índices.
func NewIndicesController(reg *index.Registry, maxBody int64) *IndicesController {
	return &IndicesController{reg: reg, maxBody: maxBody}
}

// Create maneja PUT /v1/indices/{index}. El body es opcional.
func (c *IndicesController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IndicesController.Create"))
	name := chi.URLParam(r, "index")

	var req dto.CreateIndexRequest
	if r.ContentLength > 0 {
		if !helpers.ReadJSON(w, r, c.maxBody, &req) {
			return
		}
	}

	ix, err := c.reg.CreateWithShards(name, req.NumShards)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	log.Info("index created", logger.Index(name), logger.Int("num_shards", ix.NumShards()))
	helpers.WriteJSON(w, http.StatusCreated, dto.CreateIndexResponse{
		Acknowledged: true,
		Index:        ix.Name(),
		NumShards:    ix.NumShards(),
	})
}

// Get maneja GET /v1/indices/{index}.
func (c *IndicesController) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.IndexInfoResponse{
		Index:     ix.Name(),
		NumShards: ix.NumShards(),
		Docs:      ix.DocCount(),
		Closed:    ix.Closed(),
		CreatedAt: ix.CreatedAt(),
	})
}

// List maneja GET /v1/indices.
func (c *IndicesController) List(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.IndexListResponse{Indices: c.reg.Names()})
}

// Delete maneja DELETE /v1/indices/{index}.
func (c *IndicesController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IndicesController.Delete"))
	name := chi.URLParam(r, "index")

	if err := c.reg.Delete(name); err != nil {
		httperrors.WriteError(w, err)
		return
	}

	log.Info("index deleted", logger.Index(name))
	helpers.WriteJSON(w, http.StatusOK, dto.AcknowledgedResponse{Acknowledged: true})
}

// Close maneja POST /v1/indices/{index}/_close.
func (c *IndicesController) Close(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	ix.Close()

	logger.From(r.Context()).Info("index closed", logger.Index(name))
	helpers.WriteJSON(w, http.StatusOK, dto.AcknowledgedResponse{Acknowledged: true})
}

// Open maneja POST /v1/indices/{index}/_open.
func (c *IndicesController) Open(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	ix.Open()

	logger.From(r.Context()).Info("index opened", logger.Index(name))
	helpers.WriteJSON(w, http.StatusOK, dto.AcknowledgedResponse{Acknowledged: true})
}
