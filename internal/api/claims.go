package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cargoflow/internal/models"
	"cargoflow/internal/notify"
	"cargoflow/internal/policy"
	"cargoflow/internal/registry"
)

func (s *Server) listClaims(c *gin.Context) {
	user := currentUser(c)
	claims, count, err := s.store.ListClaims(parseFilters(c), policy.ScopeQuery(user, registry.KindClaim))
	if err != nil {
		respondError(c, err)
		return
	}
	results := make([]map[string]interface{}, len(claims))
	for i := range claims {
		results[i] = redactRow(user.Role, registry.KindClaim, claimRow(&claims[i]))
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": count})
}

// loadScopedClaim fetches a claim and hides it from customers who did not
// file it.
func (s *Server) loadScopedClaim(c *gin.Context) (*models.Claim, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	claim, err := s.store.GetClaim(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	user := currentUser(c)
	if !user.IsStaff() && claim.CustomerID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	return claim, true
}

func (s *Server) getClaim(c *gin.Context) {
	claim, ok := s.loadScopedClaim(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindClaim, claimRow(claim)))
}

type claimPayload struct {
	TrackingID  string   `json:"tracking_id" binding:"required"`
	ItemName    string   `json:"item_name" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// createClaim files a new claim for the authenticated customer. The
// submitter reference comes from the token, never the payload.
func (s *Server) createClaim(c *gin.Context) {
	user := currentUser(c)
	var payload claimPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claim := models.Claim{
		TrackingID:  payload.TrackingID,
		ItemName:    payload.ItemName,
		Description: payload.Description,
		CustomerID:  user.ID,
	}
	for _, url := range payload.Images {
		claim.Images = append(claim.Images, models.ClaimImage{URL: url})
	}
	if err := s.store.CreateClaim(&claim, s.regOrigin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, redactRow(user.Role, registry.KindClaim, claimRow(&claim)))
}

func (s *Server) updateClaim(c *gin.Context) {
	claim, ok := s.loadScopedClaim(c)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := currentUser(c)
	if !user.IsStaff() {
		// Admin notes are staff-only even on the customer's own claim.
		delete(patch, "admin_notes")
	}
	if err := s.coord.ApplyFieldEdit(c.Request.Context(), user, registry.KindClaim, claim, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactRow(user.Role, registry.KindClaim, claimRow(claim)))
}

func (s *Server) changeClaimStatus(c *gin.Context) {
	claim, ok := s.loadScopedClaim(c)
	if !ok {
		return
	}
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from := claim.Status
	if err := s.coord.ApplyStatusChange(c.Request.Context(), currentUser(c), registry.KindClaim, claim, payload.Status); err != nil {
		respondError(c, err)
		return
	}
	s.hub.Broadcast(notify.StatusEvent{
		EntityKind: string(registry.KindClaim),
		EntityID:   claim.ID,
		From:       from,
		To:         claim.Status,
		At:         time.Now(),
	})
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindClaim, claimRow(claim)))
}

func (s *Server) deleteClaim(c *gin.Context) {
	claim, ok := s.loadScopedClaim(c)
	if !ok {
		return
	}
	if err := s.coord.ApplyDelete(c.Request.Context(), currentUser(c), registry.KindClaim, claim); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "claim removed"})
}
