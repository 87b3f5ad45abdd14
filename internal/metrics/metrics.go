// Package metrics define las métricas Prometheus del servicio en un paquete
// standalone para evitar ciclos de import entre cluster e HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ─── Operaciones broadcast (por shard) ───

	BroadcastOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "broadcast_ops_total",
		Help: "Operaciones broadcast ejecutadas, por operación y resultado",
	}, []string{"op", "result"}) // result: ok|partial|failed

	ShardFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shard_failures_total",
		Help: "Fallos de shard reportados en headers _shards, por operación",
	}, []string{"op"})

	// ─── Fan-out multi-nodo ───

	NodeFanoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "node_fanout_total",
		Help: "Llamadas por nodo durante operaciones multi-nodo",
	}, []string{"result"}) // result: ok|failed

	NodeFanoutDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "node_fanout_duration_seconds",
		Help:    "Duración del fan-out completo a los nodos del cluster",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	// ─── HTTP ───

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo",
	})
)

// Register registra todas las métricas en el registry dado (default si nil).
// Tolera doble registro para no romper en tests que levantan el wiring dos
// veces.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	collectors := []prometheus.Collector{
		BroadcastOpsTotal,
		ShardFailuresTotal,
		NodeFanoutTotal,
		NodeFanoutDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInflight,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
