// Package api serves the public JSON endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/amberstream/webportal/internal/catalog"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PlanHandler serves the public plan listing.
type PlanHandler struct {
	db *gorm.DB
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

// planEntry is a single plan in the public listing.
type planEntry struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// plansResponse is the public plan listing payload.
type plansResponse struct {
	Plans       []planEntry `json:"plans"`
	LastUpdated *string     `json:"last_updated"`
	Cheapest    *float64    `json:"cheapest"`
}

// List returns all plans, the last price revision, and the cheapest rate.
// This is a pure read; it never touches the revision stamp.
func (h *PlanHandler) List(c *gin.Context) {
	snap, errSnap := catalog.TakeSnapshot(h.db.WithContext(c.Request.Context()))
	if errSnap != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list plans failed"})
		return
	}

	out := plansResponse{
		Plans:    make([]planEntry, 0, len(snap.Plans)),
		Cheapest: snap.Cheapest,
	}
	for _, plan := range snap.Plans {
		out.Plans = append(out.Plans, planEntry{Name: plan.Name, Price: plan.Price})
	}
	if snap.LastUpdated != nil {
		stamp := snap.LastUpdated.UTC().Format(time.RFC3339)
		out.LastUpdated = &stamp
	}
	c.JSON(http.StatusOK, out)
}
