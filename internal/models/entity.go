package models

// The mutation coordinator drives items, containers and claims through one
// optimistic-update routine; these methods give it a uniform handle on
// status and patchable fields without reflection.

func (i *WarehouseItem) EntityID() uint { return i.ID }
func (i *WarehouseItem) CurrentStatus() string { return i.Status }
func (i *WarehouseItem) SetStatus(s string) { i.Status = s }

// ApplyPatch applies the recognized fields of a patch in place.
func (i *WarehouseItem) ApplyPatch(patch map[string]interface{}) {
	for k, v := range patch {
		switch k {
		case "shipping_mark":
			if s, ok := v.(string); ok {
				i.ShippingMark = s
			}
		case "supply_tracking":
			if s, ok := v.(string); ok {
				i.SupplyTracking = s
			}
		case "description":
			if s, ok := v.(string); ok {
				i.Description = s
			}
		case "quantity":
			switch q := v.(type) {
			case int:
				i.Quantity = q
			case float64: // JSON numbers decode as float64
				i.Quantity = int(q)
			}
		}
	}
}

// CurrentFields snapshots the named fields so a failed patch can be rolled
// back.
func (i *WarehouseItem) CurrentFields(keys []string) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		switch k {
		case "shipping_mark":
			out[k] = i.ShippingMark
		case "supply_tracking":
			out[k] = i.SupplyTracking
		case "description":
			out[k] = i.Description
		case "quantity":
			out[k] = i.Quantity
		}
	}
	return out
}

func (c *Container) EntityID() uint { return c.ID }
func (c *Container) CurrentStatus() string { return c.Status }

// SetStatus records the prior state when a container is flagged so callers
// can offer a one-step restore.
func (c *Container) SetStatus(s string) {
	if s == string(ContainerStatusFlagged) && c.Status != string(ContainerStatusFlagged) {
		c.PriorStatus = c.Status
	}
	c.Status = s
}

func (c *Container) ApplyPatch(patch map[string]interface{}) {
	for k, v := range patch {
		switch k {
		case "container_id":
			if s, ok := v.(string); ok {
				c.ContainerID = s
			}
		case "origin_warehouse":
			if s, ok := v.(string); ok {
				c.OriginWarehouse = s
			}
		case "dest_warehouse":
			if s, ok := v.(string); ok {
				c.DestWarehouse = s
			}
		case "item_count":
			switch n := v.(type) {
			case int:
				c.ItemCount = n
			case float64:
				c.ItemCount = int(n)
			}
		}
	}
}

func (c *Container) CurrentFields(keys []string) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		switch k {
		case "container_id":
			out[k] = c.ContainerID
		case "origin_warehouse":
			out[k] = c.OriginWarehouse
		case "dest_warehouse":
			out[k] = c.DestWarehouse
		case "item_count":
			out[k] = c.ItemCount
		}
	}
	return out
}

func (cl *Claim) EntityID() uint { return cl.ID }
func (cl *Claim) CurrentStatus() string { return cl.Status }
func (cl *Claim) SetStatus(s string) { cl.Status = s }

func (cl *Claim) ApplyPatch(patch map[string]interface{}) {
	for k, v := range patch {
		switch k {
		case "item_name":
			if s, ok := v.(string); ok {
				cl.ItemName = s
			}
		case "description":
			if s, ok := v.(string); ok {
				cl.Description = s
			}
		case "admin_notes":
			if s, ok := v.(string); ok {
				cl.AdminNotes = s
			}
		}
	}
}

func (cl *Claim) CurrentFields(keys []string) map[string]interface{} {
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		switch k {
		case "item_name":
			out[k] = cl.ItemName
		case "description":
			out[k] = cl.Description
		case "admin_notes":
			out[k] = cl.AdminNotes
		}
	}
	return out
}
