package dto

import (
	"github.com/dropDatabas3/searchjohn/internal/action"
	"github.com/dropDatabas3/searchjohn/internal/index"
)

// RefreshResponse es la respuesta de POST .../_refresh.
type RefreshResponse struct {
	Shards *action.ShardsHeader `json:"_shards"`
}

// FlushResponse es la respuesta de POST .../_flush.
type FlushResponse struct {
	Shards  *action.ShardsHeader `json:"_shards"`
	Flushed int                  `json:"flushed"`
}

// StatsResponse es la respuesta de GET .../_stats.
type StatsResponse struct {
	Shards    *action.ShardsHeader `json:"_shards"`
	Docs      int                  `json:"docs"`
	SizeBytes int64                `json:"size_bytes"`
	PerShard  []*index.ShardStats  `json:"per_shard,omitempty"`
}

// SearchResponse es la respuesta de GET .../_search.
type SearchResponse struct {
	TookMs int64                `json:"took"`
	Shards *action.ShardsHeader `json:"_shards"`
	Hits   SearchHits           `json:"hits"`
}

// SearchHits agrupa los resultados de una búsqueda.
type SearchHits struct {
	Total int          `json:"total"`
	Hits  []*index.Hit `json:"hits"`
}
