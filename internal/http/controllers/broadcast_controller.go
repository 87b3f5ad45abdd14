package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/http/dto"
	httperrors "github.com/dropDatabas3/searchjohn/internal/http/errors"
	"github.com/dropDatabas3/searchjohn/internal/http/helpers"
	"github.com/dropDatabas3/searchjohn/internal/index"
	"github.com/dropDatabas3/searchjohn/internal/index/query"
	"github.com/dropDatabas3/searchjohn/internal/metrics"
	"github.com/dropDatabas3/searchjohn/internal/observability/logger"
)

// BroadcastController maneja las operaciones que corren contra todos los
// shards de un índice y reportan el resultado por unidad en el header _shards.
type BroadcastController struct {
	reg *index.Registry
}

// NewBroadcastController crea el controller de operaciones broadcast.
func NewBroadcastController(reg *index.Registry) *BroadcastController {
	return &BroadcastController{reg: reg}
}

// groupParam lee ?group_shard_failures= (default true). Un valor no booleano
// corta con 400.
func groupParam(r *http.Request) (bool, error) {
	q := r.URL.Query()
	if !q.Has("group_shard_failures") {
		return true, nil
	}
	v, err := strconv.ParseBool(q.Get("group_shard_failures"))
	if err != nil {
		return false, httperrors.ErrBadRequest.WithDetail(
			"group_shard_failures must be a boolean, got " + strconv.Quote(q.Get("group_shard_failures")))
	}
	return v, nil
}

// shardsHeader arma el header _shards de un broadcast y registra métricas.
func shardsHeader(br *index.BroadcastResult, op string, group bool) (*action.ShardsHeader, error) {
	header, err := action.NewShardsHeader(br.Total, br.Successful, len(br.Failures), br.Failures, group)
	if err != nil {
		return nil, err
	}

	result := "ok"
	switch {
	case br.Successful == 0 && br.Total > 0:
		result = "failed"
	case len(br.Failures) > 0:
		result = "partial"
	}
	metrics.BroadcastOpsTotal.WithLabelValues(op, result).Inc()
	if n := len(br.Failures); n > 0 {
		metrics.ShardFailuresTotal.WithLabelValues(op).Add(float64(n))
	}
	return header, nil
}

// Refresh maneja POST /v1/indices/{index}/_refresh.
func (c *BroadcastController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("BroadcastController.Refresh"))
	name := chi.URLParam(r, "index")

	group, err := groupParam(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	br := ix.Refresh()
	header, err := shardsHeader(br, "refresh", group)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if header.Failed > 0 {
		log.Warn("refresh with shard failures", logger.Index(name), logger.Failed(header.Failed))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.RefreshResponse{Shards: header})
}

// Flush maneja POST /v1/indices/{index}/_flush.
func (c *BroadcastController) Flush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("BroadcastController.Flush"))
	name := chi.URLParam(r, "index")

	group, err := groupParam(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	fr := ix.Flush()
	header, err := shardsHeader(fr.BroadcastResult, "flush", group)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if header.Failed > 0 {
		log.Warn("flush with shard failures", logger.Index(name), logger.Failed(header.Failed))
	}
	helpers.WriteJSON(w, http.StatusOK, dto.FlushResponse{Shards: header, Flushed: fr.Flushed})
}

// Stats maneja GET /v1/indices/{index}/_stats.
func (c *BroadcastController) Stats(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "index")

	group, err := groupParam(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	sr := ix.Stats()
	header, err := shardsHeader(sr.BroadcastResult, "stats", group)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.StatsResponse{
		Shards:    header,
		Docs:      sr.Docs,
		SizeBytes: sr.SizeBytes,
		PerShard:  sr.Shards,
	})
}

// Search maneja GET /v1/indices/{index}/_search.
//
// Query params: q (texto), df (campo default), default_operator (AND/OR),
// analyzer, analyze_wildcard, lenient, size. Sin q es match-all.
func (c *BroadcastController) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("BroadcastController.Search"))
	name := chi.URLParam(r, "index")

	group, err := groupParam(r)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	q, err := query.FromURLParams(r.URL.Query())
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidQuery.WithDetail(err.Error()).WithCause(err))
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		size, err = strconv.Atoi(s)
		if err != nil || size < 0 {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("size must be a non-negative integer"))
			return
		}
	}

	ix, err := c.reg.Get(name)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	start := time.Now()
	sr := ix.Search(q, size)
	header, err := shardsHeader(sr.BroadcastResult, "search", group)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}

	if header.Failed > 0 {
		log.Warn("search with shard failures", logger.Index(name), logger.Failed(header.Failed))
	}
	hits := sr.Hits
	if hits == nil {
		hits = []*index.Hit{}
	}
	helpers.WriteJSON(w, http.StatusOK, dto.SearchResponse{
		TookMs: time.Since(start).Milliseconds(),
		Shards: header,
		Hits:   dto.SearchHits{Total: sr.TotalHits, Hits: hits},
	})
}
