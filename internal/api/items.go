package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cargoflow/internal/aggregate"
	"cargoflow/internal/coordinator"
	"cargoflow/internal/models"
	"cargoflow/internal/notify"
	"cargoflow/internal/policy"
	"cargoflow/internal/registry"
	"cargoflow/internal/store"
)

func parseFilters(c *gin.Context) store.ListFilters {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return store.ListFilters{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Warehouse: c.Query("warehouse"),
		CargoType: c.Query("cargo_type"),
		Page:      page,
		PageSize:  pageSize,
		Ordering:  c.Query("ordering"),
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// listItems returns one scoped, filtered page of warehouse items.
func (s *Server) listItems(c *gin.Context) {
	user := currentUser(c)
	items, count, err := s.store.ListItems(parseFilters(c), policy.ScopeQuery(user, registry.KindItem))
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]map[string]interface{}, len(items))
	for i := range items {
		results[i] = redactRow(user.Role, registry.KindItem, itemRow(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": count})
}

// listItemsGrouped rolls the scoped item set up into shipping-mark groups.
func (s *Server) listItemsGrouped(c *gin.Context) {
	user := currentUser(c)
	filters := parseFilters(c)
	// Aggregation wants the whole scoped set; search is applied by the
	// aggregator so group totals reconcile against the filtered input.
	search := filters.Search
	filters.Search = ""
	filters.Page = 1
	filters.PageSize = 1 << 20

	items, _, err := s.store.ListItems(filters, policy.ScopeQuery(user, registry.KindItem))
	if err != nil {
		respondError(c, err)
		return
	}

	groups := aggregate.GroupByShippingMark(items, aggregate.MatchQuery(search))
	results := make([]gin.H, 0, len(groups))
	for _, mark := range aggregate.Marks(groups) {
		g := groups[mark]
		rows := make([]map[string]interface{}, len(g.Items))
		for i := range g.Items {
			rows[i] = redactRow(user.Role, registry.KindItem, itemRow(&g.Items[i]))
		}
		results = append(results, gin.H{
			"shipping_mark":  g.Mark,
			"item_count":     len(g.Items),
			"total_quantity": g.TotalQuantity,
			"total_cbm":      g.TotalCbm.StringFixed(2),
			"total_weight":   g.TotalWeight.StringFixed(2),
			"items":          rows,
		})
	}
	c.JSON(http.StatusOK, gin.H{"groups": results, "count": len(groups)})
}

// loadScopedItem fetches an item and hides it from customers who do not
// own its shipping mark.
func (s *Server) loadScopedItem(c *gin.Context) (*models.WarehouseItem, bool) {
	id, ok := pathID(c)
	if !ok {
		return nil, false
	}
	item, err := s.store.GetItem(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	user := currentUser(c)
	if !user.IsStaff() && item.ShippingMark != user.ShippingMark {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, false
	}
	return item, true
}

func (s *Server) getItem(c *gin.Context) {
	item, ok := s.loadScopedItem(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindItem, itemRow(item)))
}

func (s *Server) itemHistory(c *gin.Context) {
	item, ok := s.loadScopedItem(c)
	if !ok {
		return
	}
	events, err := s.store.ItemHistory(item.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": events, "count": len(events)})
}

type itemPayload struct {
	ShippingMark   string          `json:"shipping_mark"`
	SupplyTracking string          `json:"supply_tracking"`
	Description    string          `json:"description"`
	Quantity       int             `json:"quantity"`
	Cbm            decimal.Decimal `json:"cbm"`
	Weight         decimal.Decimal `json:"weight"`
	Warehouse      string          `json:"warehouse"`
	Mode           string          `json:"mode"`
	Side           string          `json:"side"`
	CustomerID     uint            `json:"customer_id"`
}

// createItem records a manual intake. Staff only.
func (s *Server) createItem(c *gin.Context) {
	user := currentUser(c)
	if err := policy.CanMutate(user.Role, registry.KindItem, policy.ActionCreate); err != nil {
		respondError(c, err)
		return
	}

	var payload itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if payload.Quantity < 0 {
		respondError(c, &coordinator.ValidationFailureError{FieldErrors: map[string]string{"quantity": "must be >= 0"}})
		return
	}

	item := models.WarehouseItem{
		ShippingMark:   payload.ShippingMark,
		SupplyTracking: payload.SupplyTracking,
		Description:    payload.Description,
		Quantity:       payload.Quantity,
		Cbm:            payload.Cbm,
		Weight:         payload.Weight,
		Warehouse:      payload.Warehouse,
		Mode:           payload.Mode,
		Side:           payload.Side,
		CustomerID:     payload.CustomerID,
	}
	if item.Side == "" {
		item.Side = models.SideOrigin
	}
	if err := s.store.CreateItem(&item, s.regOrigin); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, itemRow(&item))
}

func (s *Server) updateItem(c *gin.Context) {
	item, ok := s.loadScopedItem(c)
	if !ok {
		return
	}
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.coord.ApplyFieldEdit(c.Request.Context(), currentUser(c), registry.KindItem, item, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindItem, itemRow(item)))
}

type statusPayload struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) changeItemStatus(c *gin.Context) {
	item, ok := s.loadScopedItem(c)
	if !ok {
		return
	}
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from := item.Status
	coord := s.coordinatorFor(item.Side)
	if err := coord.ApplyStatusChange(c.Request.Context(), currentUser(c), registry.KindItem, item, payload.Status); err != nil {
		respondError(c, err)
		return
	}
	s.hub.Broadcast(notify.StatusEvent{
		EntityKind: string(registry.KindItem),
		EntityID:   item.ID,
		From:       from,
		To:         item.Status,
		At:         time.Now(),
	})
	c.JSON(http.StatusOK, redactRow(currentUser(c).Role, registry.KindItem, itemRow(item)))
}

type bulkStatusPayload struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// bulkItemStatus transitions many items in one batch, e.g. resolving all
// flagged items at once. Members that cannot move are reported, not fatal.
func (s *Server) bulkItemStatus(c *gin.Context) {
	user := currentUser(c)
	var payload bulkStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	failed := make(map[uint]string, len(payload.IDs))
	fetched := make([]models.WarehouseItem, 0, len(payload.IDs))
	for _, id := range payload.IDs {
		item, err := s.store.GetItem(id)
		if err != nil {
			failed[id] = "not found"
			continue
		}
		fetched = append(fetched, *item)
	}

	// Rows outside the caller's scope are reported the same as missing ones.
	visible := policy.ScopeItems(user, fetched)
	inScope := make(map[uint]bool, len(visible))
	for i := range visible {
		inScope[visible[i].ID] = true
	}
	for i := range fetched {
		if !inScope[fetched[i].ID] {
			failed[fetched[i].ID] = "not found"
		}
	}

	// Each warehouse side has its own transition table, so the batch is
	// split per side and dispatched to the matching coordinator.
	batches := make(map[string][]coordinator.Entity, 2)
	for i := range visible {
		batches[visible[i].Side] = append(batches[visible[i].Side], &visible[i])
	}

	applied := make([]uint, 0, len(visible))
	for side, entities := range batches {
		result, err := s.coordinatorFor(side).ApplyBulkStatusChange(c.Request.Context(), user, registry.KindItem, entities, payload.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		applied = append(applied, result.Applied...)
		for id, ferr := range result.Failed {
			failed[id] = ferr.Error()
		}
	}

	for _, id := range applied {
		s.hub.Broadcast(notify.StatusEvent{
			EntityKind: string(registry.KindItem),
			EntityID:   id,
			To:         payload.Status,
			At:         time.Now(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "failed": failed})
}

func (s *Server) deleteItem(c *gin.Context) {
	item, ok := s.loadScopedItem(c)
	if !ok {
		return
	}
	if err := s.coord.ApplyDelete(c.Request.Context(), currentUser(c), registry.KindItem, item); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}
