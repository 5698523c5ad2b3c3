// Package api exposes the dashboard HTTP surface: scoped list queries,
// shipping-mark aggregation, and lifecycle mutations for items, containers
// and claims.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargoflow/internal/coordinator"
	"cargoflow/internal/models"
	"cargoflow/internal/monitoring"
	"cargoflow/internal/notify"
	"cargoflow/internal/policy"
	"cargoflow/internal/registry"
	"cargoflow/internal/store"
)

// Server wires the dashboard API together.
type Server struct {
	router    *gin.Engine
	store     *store.Store
	regOrigin *registry.Registry
	regDest   *registry.Registry
	coord     *coordinator.Coordinator
	coordDest *coordinator.Coordinator
	hub       *notify.Hub
	monitor   *monitoring.Monitor
	jwtSecret []byte
}

// NewServer creates a server instance backed by the given store.
func NewServer(st *store.Store, jwtSecret []byte) *Server {
	regOrigin := registry.New()
	regDest := registry.NewDestination()
	monitor := monitoring.NewMonitor()

	server := &Server{
		router:    gin.Default(),
		store:     st,
		regOrigin: regOrigin,
		regDest:   regDest,
		coord:     coordinator.New(regOrigin, st, monitor),
		coordDest: coordinator.New(regDest, st, monitor),
		hub:       notify.NewHub(),
		monitor:   monitor,
		jwtSecret: jwtSecret,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.Use(s.authMiddleware())
	{
		api.GET("/ws", s.hub.HandleWS)
		api.GET("/metrics", s.handleMetrics)

		api.GET("/items", s.listItems)
		api.GET("/items/grouped", s.listItemsGrouped)
		api.GET("/items/:id", s.getItem)
		api.GET("/items/:id/history", s.itemHistory)
		api.POST("/items", s.createItem)
		api.PUT("/items/:id", s.updateItem)
		api.POST("/items/:id/status", s.changeItemStatus)
		api.POST("/items/bulk-status", s.bulkItemStatus)
		api.DELETE("/items/:id", s.deleteItem)

		api.GET("/containers", s.listContainers)
		api.GET("/containers/:id", s.getContainer)
		api.POST("/containers", s.createContainer)
		api.PUT("/containers/:id", s.updateContainer)
		api.POST("/containers/:id/status", s.changeContainerStatus)
		api.POST("/containers/:id/flag", s.flagContainer)
		api.POST("/containers/:id/unflag", s.unflagContainer)
		api.DELETE("/containers/:id", s.deleteContainer)

		api.GET("/claims", s.listClaims)
		api.GET("/claims/:id", s.getClaim)
		api.POST("/claims", s.createClaim)
		api.PUT("/claims/:id", s.updateClaim)
		api.POST("/claims/:id/status", s.changeClaimStatus)
		api.DELETE("/claims/:id", s.deleteClaim)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}

// coordinatorFor picks the registry side a mutation validates against.
func (s *Server) coordinatorFor(side string) *coordinator.Coordinator {
	if side == models.SideDestination {
		return s.coordDest
	}
	return s.coord
}

// respondError maps the mutation error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *registry.InvalidTransitionError:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error(), "from": e.From, "to": e.To})
	case *policy.ForbiddenError:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *coordinator.ValidationFailureError:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error(), "fields": e.FieldErrors})
	case *coordinator.RemoteFailureError:
		c.JSON(http.StatusBadGateway, gin.H{"error": e.Error(), "retryable": true})
	default:
		if err == coordinator.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
