package server

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cityforge/urbanplan/pkg/geo"
	"github.com/cityforge/urbanplan/pkg/plan"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type planSummary struct {
	PlanID    string `json:"plan_id"`
	Name      string `json:"name"`
	Buildings int    `json:"buildings"`
	Roads     int    `json:"roads"`
	Zones     int    `json:"zones"`
	Sensors   int    `json:"sensors"`
}

func summarize(p *plan.Plan) planSummary {
	return planSummary{
		PlanID:    p.ID,
		Name:      p.Name,
		Buildings: len(p.Buildings),
		Roads:     len(p.Roads),
		Zones:     len(p.Zones),
		Sensors:   len(p.Sensors),
	}
}

func (s *Server) listPlans(c *gin.Context) {
	summaries := []planSummary{}
	for _, id := range s.reg.IDs() {
		if p, ok := s.reg.Get(id); ok {
			summaries = append(summaries, summarize(p))
		}
	}
	c.JSON(http.StatusOK, gin.H{"plans": summaries})
}

func (s *Server) createPlan(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	id := s.reg.CreatePlan(req.Name, req.Description)
	c.JSON(http.StatusCreated, gin.H{"plan_id": id})
}

func (s *Server) getPlan(c *gin.Context) {
	p, ok := s.reg.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	c.JSON(http.StatusOK, p.Export())
}

func (s *Server) activatePlan(c *gin.Context) {
	id := c.Param("id")
	if !s.reg.SetActive(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": id})
}

func (s *Server) activePlan(c *gin.Context) {
	p := s.reg.Active()
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active plan"})
		return
	}
	c.JSON(http.StatusOK, p.Export())
}

func (s *Server) zonesAt(c *gin.Context) {
	p, ok := s.reg.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}
	pt, err := geo.New(lat, lng)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	type zoneHit struct {
		ZoneID   string `json:"zone_id"`
		Name     string `json:"name"`
		ZoneType string `json:"zone_type"`
	}
	hits := []zoneHit{}
	for _, z := range p.ZonesContaining(pt) {
		hits = append(hits, zoneHit{ZoneID: z.ID, Name: z.Name, ZoneType: string(z.ZoneType)})
	}
	c.JSON(http.StatusOK, gin.H{"zones": hits})
}

func (s *Server) snapshotPlan(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store disabled"})
		return
	}
	id := c.Param("id")
	p, ok := s.reg.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	if err := s.store.Save(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save snapshot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": id})
}

func (s *Server) listSnapshots(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store disabled"})
		return
	}
	snaps, err := s.store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list snapshots"})
		return
	}
	type snapOut struct {
		PlanID  string `json:"plan_id"`
		Name    string `json:"name"`
		SavedAt string `json:"saved_at"`
	}
	out := []snapOut{}
	for _, snap := range snaps {
		out = append(out, snapOut{
			PlanID:  snap.PlanID,
			Name:    snap.Name,
			SavedAt: snap.SavedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": out})
}

func (s *Server) restoreSnapshot(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot store disabled"})
		return
	}
	id := c.Param("id")
	doc, ok, err := s.store.Document(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read snapshot"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}
	planID, err := s.reg.Load(bytes.NewReader(doc))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan_id": planID})
}
