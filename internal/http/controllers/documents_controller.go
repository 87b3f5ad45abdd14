package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/searchjohn/internal/http/dto"
	httperrors "github.com/dropDatabas3/searchjohn/internal/http/errors"
	"github.com/dropDatabas3/searchjohn/internal/http/helpers"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/observability/logger"
)

// DocumentsController maneja las operaciones CRUD de documentos con control
// optimista de concurrencia por versión.
type DocumentsController struct {
	reg     *index.Registry
	maxBody int64
}

// NewDocumentsController crea el controller de documentos.
func NewDocumentsController(reg *index.Registry, maxBody int64) *DocumentsController {
	return &DocumentsController{reg: reg, maxBody: maxBody}
}

// Put maneja PUT /v1/indices/{index}/docs/{id}.
//
// La versión esperada viene del query param `version` o del header If-Match
// (el param gana). Sin versión, el put es incondicional.
func (c *DocumentsController) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DocumentsController.Put"))
	name := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	expected, err := helpers.ResolveVersion(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	body := helpers.ReadBody(w, r, c.maxBody)
	if body == nil {
		return
	}
	if !json.Valid(body) {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	doc, err := ix.Put(id, body, expected)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	result := "updated"
	status := http.StatusOK
	if doc.Version == 1 {
		result = "created"
		status = http.StatusCreated
	}

	log.Debug("document indexed",
		logger.Index(name), logger.DocID(id), logger.Version(doc.Version))
	helpers.WriteJSON(w, status, dto.PutDocumentResponse{
		Index:   name,
		ID:      doc.ID,
		Version: doc.Version,
		Result:  result,
	})
}

// Get maneja GET /v1/indices/{index}/docs/{id}.
func (c *DocumentsController) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	doc, err := ix.Get(id)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.GetDocumentResponse{
		Index:   name,
		ID:      doc.ID,
		Version: doc.Version,
		Source:  doc.Source,
	})
}

// Delete maneja DELETE /v1/indices/{index}/docs/{id}. Acepta la misma
// resolución de versión que Put.
func (c *DocumentsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("DocumentsController.Delete"))
	name := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	expected, err := helpers.ResolveVersion(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	deletedVersion, err := ix.Delete(id, expected)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	log.Debug("document deleted",
		logger.Index(name), logger.DocID(id), logger.Version(deletedVersion))
	helpers.WriteJSON(w, http.StatusOK, dto.DeleteDocumentResponse{
		Index:   name,
		ID:      id,
		Version: deletedVersion,
		Result:  "deleted",
	})
}
