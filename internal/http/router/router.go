// Package router arma el árbol de rutas de la API y cuelga los middlewares
// globales. Es el único lugar que conoce paths concretos.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/searchjohn/internal/http/controllers"
	httperrors "github.com/dropDatabas3/searchjohn/internal/http/errors"
	"github.com/dropDatabas3/searchjohn/internal/http/middlewares"
	"github.com/dropDatabas3/searchjohn/internal/http/services"
	"github.com/dropDatabas3/searchjohn/internal/index"
)

// Deps son las dependencias que necesita el router para armar los handlers.
type Deps struct {
	Registry   *index.Registry
	ClusterSvc *services.ClusterService
	// Límite de body para PUT de documentos y requests de gestión.
	MaxBodyBytes int64
	// Ready reporta si el nodo está listo para servir tráfico (readyz).
	Ready func() bool
}

// New construye el handler raíz con todas las rutas y middlewares.
func New(deps Deps) http.Handler {
	indicesCtrl := controllers.NewIndicesController(deps.Registry, deps.MaxBodyBytes)
	docsCtrl := controllers.NewDocumentsController(deps.Registry, deps.MaxBodyBytes)
	bcastCtrl := controllers.NewBroadcastController(deps.Registry)
	clusterCtrl := controllers.NewClusterController(deps.ClusterSvc)
	healthCtrl := controllers.NewHealthController(deps.Ready)

	r := chi.NewRouter()

	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithLogging())
	r.Use(middlewares.WithMetrics())
	r.Use(middlewares.WithRecover())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// ─── Observabilidad / health ───
	r.Get("/healthz", healthCtrl.Healthz)
	r.Get("/readyz", healthCtrl.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	// ─── API v1 ───
	r.Route("/v1", func(r chi.Router) {
		r.Route("/indices", func(r chi.Router) {
			r.Get("/", indicesCtrl.List)

			r.Route("/{index}", func(r chi.Router) {
				r.Put("/", indicesCtrl.Create)
				r.Get("/", indicesCtrl.Get)
				r.Delete("/", indicesCtrl.Delete)
				r.Post("/_close", indicesCtrl.Close)
				r.Post("/_open", indicesCtrl.Open)

				r.Post("/_refresh", bcastCtrl.Refresh)
				r.Post("/_flush", bcastCtrl.Flush)
				r.Get("/_stats", bcastCtrl.Stats)
				r.Get("/_search", bcastCtrl.Search)

				r.Route("/docs/{id}", func(r chi.Router) {
					r.Put("/", docsCtrl.Put)
					r.Get("/", docsCtrl.Get)
					r.Delete("/", docsCtrl.Delete)
				})
			})
		})

		r.Route("/cluster", func(r chi.Router) {
			r.Get("/nodes", clusterCtrl.Nodes)
			r.Get("/nodes/stats", clusterCtrl.NodesStats)
		})

		// endpoint interno que consume el fan-out de nodes/stats
		r.Get("/internal/nodes/local/stats", clusterCtrl.LocalStats)
	})

	return r
}
