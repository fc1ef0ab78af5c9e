// Package server exposes the plan registry over HTTP.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cityforge/urbanplan/internal/store"
	"github.com/cityforge/urbanplan/pkg/registry"
)

// Server serves the registry API. The snapshot store may be nil, in which
// case the snapshot endpoints report the feature as disabled.
type Server struct {
	reg   *registry.Registry
	store *store.Store
}

// New creates a server over the given registry and optional store.
func New(reg *registry.Registry, st *store.Store) *Server {
	return &Server{reg: reg, store: st}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/plans", s.listPlans)
	api.POST("/plans", s.createPlan)
	api.GET("/plans/:id", s.getPlan)
	api.POST("/plans/:id/activate", s.activatePlan)
	api.GET("/plans/:id/zones/at", s.zonesAt)
	api.GET("/active", s.activePlan)
	api.POST("/plans/:id/snapshot", s.snapshotPlan)
	api.GET("/snapshots", s.listSnapshots)
	api.POST("/snapshots/:id/restore", s.restoreSnapshot)

	return r
}

// Start runs the HTTP server on addr until it fails.
func (s *Server) Start(addr string) error {
	return s.Router().Run(addr)
}
