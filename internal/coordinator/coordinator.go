// Package coordinator applies status and field mutations: transition and
// permission checks happen before any remote call, the local entity is
// updated optimistically, and every failure path rolls the entity back so
// a view never shows a change that did not persist.
package coordinator

import (
	"context"
	"sync"

	"cargoflow/internal/models"
	"cargoflow/internal/monitoring"
	"cargoflow/internal/policy"
	"cargoflow/internal/registry"
)

// Entity is the coordinator's handle on a mutable domain row.
type Entity interface {
	EntityID() uint
	CurrentStatus() string
	SetStatus(string)
	ApplyPatch(patch map[string]interface{})
	CurrentFields(keys []string) map[string]interface{}
}

// Remote is the persistence boundary. Implementations decide transport;
// the coordinator only assumes each call eventually succeeds or fails.
type Remote interface {
	UpdateStatus(ctx context.Context, kind registry.EntityKind, id uint, from, to string, actorID uint) error
	UpdateFields(ctx context.Context, kind registry.EntityKind, id uint, patch map[string]interface{}) error
	BulkUpdateStatus(ctx context.Context, kind registry.EntityKind, ids []uint, to string) (map[uint]error, error)
	Delete(ctx context.Context, kind registry.EntityKind, id uint) error
}

// BulkResult reports which members of a batch mutation were applied.
type BulkResult struct {
	Applied []uint
	Failed  map[uint]error
}

// Coordinator serializes mutations within one process. Concurrent writers
// against the same remote row resolve last-write-wins; conflict rejection
// is the remote boundary's concern.
type Coordinator struct {
	registry *registry.Registry
	remote   Remote
	monitor  *monitoring.Monitor
	mu       sync.Mutex
}

// New creates a coordinator. monitor may be nil.
func New(reg *registry.Registry, remote Remote, monitor *monitoring.Monitor) *Coordinator {
	return &Coordinator{registry: reg, remote: remote, monitor: monitor}
}

// ApplyStatusChange validates and applies a single status transition.
func (c *Coordinator) ApplyStatusChange(ctx context.Context, actor *models.User, kind registry.EntityKind, entity Entity, target string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := entity.CurrentStatus()
	if err := c.registry.Validate(kind, from, target); err != nil {
		c.count(string(kind) + "_transitions_rejected")
		return err
	}
	if err := c.checkPermission(actor, kind, entity, policy.ActionStatusChange); err != nil {
		c.count(string(kind) + "_mutations_forbidden")
		return err
	}

	entity.SetStatus(target)
	if err := c.remote.UpdateStatus(ctx, kind, entity.EntityID(), from, target, actor.ID); err != nil {
		entity.SetStatus(from)
		c.count(string(kind) + "_mutations_rolled_back")
		return c.wrapRemote(err)
	}
	c.count(string(kind) + "_status_changes_applied")
	return nil
}

// ApplyFieldEdit validates and applies a field patch. Status is not a
// patchable field; transitions go through ApplyStatusChange.
func (c *Coordinator) ApplyFieldEdit(ctx context.Context, actor *models.User, kind registry.EntityKind, entity Entity, patch map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := validatePatch(kind, patch); err != nil {
		return err
	}
	if err := c.checkPermission(actor, kind, entity, policy.ActionEdit); err != nil {
		c.count(string(kind) + "_mutations_forbidden")
		return err
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	snapshot := entity.CurrentFields(keys)

	entity.ApplyPatch(patch)
	if err := c.remote.UpdateFields(ctx, kind, entity.EntityID(), patch); err != nil {
		entity.ApplyPatch(snapshot)
		c.count(string(kind) + "_mutations_rolled_back")
		return c.wrapRemote(err)
	}
	c.count(string(kind) + "_field_edits_applied")
	return nil
}

// ApplyBulkStatusChange transitions many entities in a single remote batch
// call. Members that fail local validation never reach the remote; members
// the remote rejects are rolled back individually. The batch as a whole
// succeeds for the applied members and reports the rest.
func (c *Coordinator) ApplyBulkStatusChange(ctx context.Context, actor *models.User, kind registry.EntityKind, entities []Entity, target string) (BulkResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := BulkResult{Failed: make(map[uint]error)}

	eligible := make([]Entity, 0, len(entities))
	prior := make(map[uint]string, len(entities))
	for _, e := range entities {
		from := e.CurrentStatus()
		if err := c.registry.Validate(kind, from, target); err != nil {
			result.Failed[e.EntityID()] = err
			continue
		}
		if err := c.checkPermission(actor, kind, e, policy.ActionStatusChange); err != nil {
			result.Failed[e.EntityID()] = err
			continue
		}
		prior[e.EntityID()] = from
		eligible = append(eligible, e)
	}
	if len(eligible) == 0 {
		return result, nil
	}

	ids := make([]uint, len(eligible))
	for i, e := range eligible {
		e.SetStatus(target)
		ids[i] = e.EntityID()
	}

	failed, err := c.remote.BulkUpdateStatus(ctx, kind, ids, target)
	if err != nil {
		// Whole batch failed: roll everything back.
		for _, e := range eligible {
			e.SetStatus(prior[e.EntityID()])
		}
		c.count(string(kind) + "_mutations_rolled_back")
		return result, c.wrapRemote(err)
	}
	for _, e := range eligible {
		if memberErr, bad := failed[e.EntityID()]; bad {
			e.SetStatus(prior[e.EntityID()])
			result.Failed[e.EntityID()] = c.wrapRemote(memberErr)
			continue
		}
		result.Applied = append(result.Applied, e.EntityID())
	}
	c.count(string(kind) + "_status_changes_applied")
	return result, nil
}

// ApplyDelete removes an entity through the remote boundary after a
// permission check. Customers may only delete their own PENDING claims.
func (c *Coordinator) ApplyDelete(ctx context.Context, actor *models.User, kind registry.EntityKind, entity Entity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkPermission(actor, kind, entity, policy.ActionDelete); err != nil {
		c.count(string(kind) + "_mutations_forbidden")
		return err
	}
	if err := c.remote.Delete(ctx, kind, entity.EntityID()); err != nil {
		return c.wrapRemote(err)
	}
	c.count(string(kind) + "_deletes_applied")
	return nil
}

func (c *Coordinator) checkPermission(actor *models.User, kind registry.EntityKind, entity Entity, action policy.Action) error {
	if claim, ok := entity.(*models.Claim); ok {
		return policy.CanTouchClaim(actor, claim, action)
	}
	return policy.CanMutate(actor.Role, kind, action)
}

func (c *Coordinator) wrapRemote(err error) error {
	if err == ErrNotFound {
		return err
	}
	return &RemoteFailureError{Cause: err}
}

func (c *Coordinator) count(name string) {
	if c.monitor != nil {
		c.monitor.Increment(name)
	}
}

// editableFields whitelists the patchable columns per entity kind; any
// other key is rejected before the remote sees it.
var editableFields = map[registry.EntityKind]map[string]bool{
	registry.KindItem: {
		"shipping_mark": true, "supply_tracking": true,
		"description": true, "quantity": true,
	},
	registry.KindContainer: {
		"container_id": true, "origin_warehouse": true,
		"dest_warehouse": true, "item_count": true,
	},
	registry.KindClaim: {
		"item_name": true, "description": true, "admin_notes": true,
	},
}

func validatePatch(kind registry.EntityKind, patch map[string]interface{}) error {
	fieldErrors := make(map[string]string)
	if len(patch) == 0 {
		fieldErrors["patch"] = "no fields to update"
	}
	if _, ok := patch["status"]; ok {
		fieldErrors["status"] = "status is not editable; request a status change"
	}
	for k := range patch {
		if k != "status" && !editableFields[kind][k] {
			fieldErrors[k] = "not an editable field"
		}
	}
	if q, ok := patch["quantity"]; ok {
		switch n := q.(type) {
		case int:
			if n < 0 {
				fieldErrors["quantity"] = "must be >= 0"
			}
		case float64:
			if n < 0 {
				fieldErrors["quantity"] = "must be >= 0"
			}
		default:
			fieldErrors["quantity"] = "must be a number"
		}
	}
	if len(fieldErrors) > 0 {
		return &ValidationFailureError{FieldErrors: fieldErrors}
	}
	return nil
}
