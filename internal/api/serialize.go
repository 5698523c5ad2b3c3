package api

import (
	"time"

	"cargoflow/internal/models"
	"cargoflow/internal/policy"
	"cargoflow/internal/registry"
)

// Serialization builds a full row map per entity and then redacts it to
// the caller's role. Redaction happens here, after retrieval and before
// the response leaves the trust boundary.

func itemRow(item *models.WarehouseItem) map[string]interface{} {
	return map[string]interface{}{
		"id":              item.ID,
		"tracking_id":     item.TrackingID,
		"shipping_mark":   item.ShippingMark,
		"supply_tracking": item.SupplyTracking,
		"description":     item.Description,
		"quantity":        item.Quantity,
		"cbm":             item.Cbm.StringFixed(2),
		"weight":          item.Weight.StringFixed(2),
		"status":          item.Status,
		"warehouse":       item.Warehouse,
		"mode":            item.Mode,
		"date_received":   item.DateReceived.Format(time.RFC3339),
		"customer_id":     item.CustomerID,
		"container_id":    item.ContainerID,
	}
}

func containerRow(ctn *models.Container) map[string]interface{} {
	return map[string]interface{}{
		"id":               ctn.ID,
		"container_id":     ctn.ContainerID,
		"type":             ctn.Type,
		"origin_warehouse": ctn.OriginWarehouse,
		"dest_warehouse":   ctn.DestWarehouse,
		"status":           ctn.Status,
		"prior_status":     ctn.PriorStatus,
		"load_date":        ctn.LoadDate.Format(time.RFC3339),
		"arrival_date":     ctn.ArrivalDate.Format(time.RFC3339),
		"rate":             ctn.Rate.StringFixed(2),
		"item_count":       ctn.ItemCount,
	}
}

func claimRow(claim *models.Claim) map[string]interface{} {
	images := make([]string, 0, len(claim.Images))
	for _, img := range claim.Images {
		images = append(images, img.URL)
	}
	return map[string]interface{}{
		"id":          claim.ID,
		"tracking_id": claim.TrackingID,
		"item_name":   claim.ItemName,
		"description": claim.Description,
		"images":      images,
		"status":      claim.Status,
		"admin_notes": claim.AdminNotes,
		"customer_id": claim.CustomerID,
		"created_at":  claim.CreatedAt.Format(time.RFC3339),
	}
}

func redactRow(role string, kind registry.EntityKind, row map[string]interface{}) map[string]interface{} {
	out := policy.Redact(role, kind, row)
	// The primary key is always addressable.
	out["id"] = row["id"]
	return out
}
