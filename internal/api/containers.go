package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"cargoflow/internal/models"
	"cargoflow/internal/notify"
	"cargoflow/internal/policy"
	"cargoflow/internal/registry"
)

func (s *Server) listContainers(c *gin.Context) {
	user := currentUser(c)
	// Customers see every container but through the reduced column set;
	// staff are limited to their warehouse access set.
	var scope func(*gorm.DB) *gorm.DB
	if user.IsStaff() {
		scope = policy.ScopeQuery(user, registry.KindContainer)
	}
	containers, count, err := s.store.ListContainers(parseFilters(c), scope)
	if err != nil {
		respondError(c, err)
		return
	}
	results := make([]map[string]interface{}, len(containers))
	for i := range containers {
		results[i] = redactRow(user.Role, registry.KindContainer, containerRow(&containers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": count})
}

func (s *Server) getContainer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctn, err := s.store.GetContainer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindContainer, containerRow(ctn)))
}

type containerPayload struct {
	ContainerID     string          `json:"container_id" binding:"required"`
	Type            string          `json:"type"`
	OriginWarehouse string          `json:"origin_warehouse"`
	DestWarehouse   string          `json:"dest_warehouse"`
	LoadDate        time.Time       `json:"load_date"`
	ArrivalDate     time.Time       `json:"arrival_date"`
	Rate            decimal.Decimal `json:"rate"`
}

func (s *Server) createContainer(c *gin.Context) {
	user := currentUser(c)
	if err := policy.CanMutate(user.Role, registry.KindContainer, policy.ActionCreate); err != nil {
		respondError(c, err)
		return
	}
	var payload containerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctn := models.Container{
		ContainerID:     payload.ContainerID,
		Type:            payload.Type,
		OriginWarehouse: payload.OriginWarehouse,
		DestWarehouse:   payload.DestWarehouse,
		LoadDate:        payload.LoadDate,
		ArrivalDate:     payload.ArrivalDate,
		Rate:            payload.Rate,
	}
	if err := s.store.CreateContainer(&ctn, s.regOrigin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, containerRow(&ctn))
}

func (s *Server) updateContainer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctn, err := s.store.GetContainer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.coord.ApplyFieldEdit(c.Request.Context(), currentUser(c), registry.KindContainer, ctn, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindContainer, containerRow(ctn)))
}

func (s *Server) applyContainerStatus(c *gin.Context, target string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctn, err := s.store.GetContainer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	from := ctn.Status
	if err := s.coord.ApplyStatusChange(c.Request.Context(), currentUser(c), registry.KindContainer, ctn, target); err != nil {
		respondError(c, err)
		return
	}
	s.hub.Broadcast(notify.StatusEvent{
		EntityKind: string(registry.KindContainer),
		EntityID:   ctn.ID,
		From:       from,
		To:         ctn.Status,
		At:         time.Now(),
	})
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindContainer, containerRow(ctn)))
}

func (s *Server) changeContainerStatus(c *gin.Context) {
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.applyContainerStatus(c, payload.Status)
}

// flagContainer marks a container for attention from any non-terminal
// state; its prior state is recorded for restore.
func (s *Server) flagContainer(c *gin.Context) {
	s.applyContainerStatus(c, string(models.ContainerStatusFlagged))
}

// unflagContainer restores a flagged container to the state it was flagged
// from, falling back to pending when unknown.
func (s *Server) unflagContainer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctn, err := s.store.GetContainer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	target := ctn.PriorStatus
	if target == "" {
		target = string(models.ContainerStatusPending)
	}
	s.applyContainerStatus(c, target)
}

func (s *Server) deleteContainer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctn, err := s.store.GetContainer(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.coord.ApplyDelete(c.Request.Context(), currentUser(c), registry.KindContainer, ctn); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "container removed"})
}
