// Package aggregate rolls flat warehouse item lists up into shipping-mark
// groups with summed quantity, CBM and weight.
package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"cargoflow/internal/models"
)

// UnknownMark collects items with an absent shipping mark so group totals
// always reconcile against the filtered input.
const UnknownMark = "Unknown"

// Group is the derived rollup for one shipping mark. It is recomputed on
// every query and never persisted.
type Group struct {
	Mark          string
	Items         []models.WarehouseItem
	TotalQuantity int
	TotalCbm      decimal.Decimal
	TotalWeight   decimal.Decimal
}

// Matcher decides whether an item belongs to the current search.
type Matcher func(models.WarehouseItem) bool

// MatchQuery builds a case-insensitive substring matcher over tracking id,
// shipping mark and description. An empty query matches everything.
func MatchQuery(query string) Matcher {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return func(item models.WarehouseItem) bool {
		return strings.Contains(strings.ToLower(item.TrackingID), q) ||
			strings.Contains(strings.ToLower(item.ShippingMark), q) ||
			strings.Contains(strings.ToLower(item.Description), q)
	}
}

// GroupByShippingMark filters items through the matcher (nil means include
// all) and groups the survivors by shipping mark. Decimal accumulation
// keeps repeated edits from drifting the totals.
func GroupByShippingMark(items []models.WarehouseItem, match Matcher) map[string]*Group {
	groups := make(map[string]*Group)
	for _, item := range items {
		if match != nil && !match(item) {
			continue
		}
		mark := strings.TrimSpace(item.ShippingMark)
		if mark == "" {
			mark = UnknownMark
		}
		g, ok := groups[mark]
		if !ok {
			g = &Group{Mark: mark}
			groups[mark] = g
		}
		g.Items = append(g.Items, item)
		g.TotalQuantity += item.Quantity
		g.TotalCbm = g.TotalCbm.Add(item.Cbm)
		g.TotalWeight = g.TotalWeight.Add(item.Weight)
	}
	return groups
}

// Marks returns the group keys in sorted order for deterministic listing.
func Marks(groups map[string]*Group) []string {
	marks := make([]string, 0, len(groups))
	for mark := range groups {
		marks = append(marks, mark)
	}
	sort.Strings(marks)
	return marks
}
