// Package modal drives the create/edit dialog lifecycle for every resource:
// staging a draft, gating submission behind debounced validation, and
// reconciling the collection cache against the server's answer. One
// parameterized controller replaces the per-resource dialog copies.
package modal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"storeadmin/internal/logging"
	"storeadmin/internal/resource"
	"storeadmin/internal/validate"
)

// Submitter performs the create/update calls. *rest.Client satisfies it.
type Submitter interface {
	Create(ctx context.Context, path string, entity resource.Record) (resource.Record, error)
	Update(ctx context.Context, path string, entity resource.Record) (resource.Record, error)
}

// Collection receives the reconciled result. *cache.Cache satisfies it.
type Collection interface {
	ApplyCreate(rec resource.Record)
	ApplyUpdate(id string, patch resource.Record)
}

var (
	// ErrClosed is returned when an operation requires an open dialog.
	ErrClosed = errors.New("dialog is not open")
	// ErrDraftNotReady blocks submission while the draft is invalid or a
	// validation run is still pending. No network call is made.
	ErrDraftNotReady = errors.New("draft is not valid or still validating")
	// ErrCancelled marks a response that arrived after the dialog closed;
	// the result was dropped without touching draft or cache.
	ErrCancelled = errors.New("dialog closed before the response arrived")
)

// Controller is the state machine of one dialog: Closed, or Open with an
// optional seed entity. The draft is a working copy that never reaches the
// cache until the server acknowledges the submission.
type Controller struct {
	schema resource.Schema
	gate   *validate.Gate
	api    Submitter
	coll   Collection
	log    logging.Logger

	mu     sync.Mutex
	open   bool
	epoch  uint64
	seed   resource.Record
	draft  resource.Record
	tempID string

	now   func() time.Time
	newID func() string
}

func NewController(schema resource.Schema, gate *validate.Gate, api Submitter, coll Collection, log logging.Logger) *Controller {
	return &Controller{
		schema: schema,
		gate:   gate,
		api:    api,
		coll:   coll,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Open transitions to Open. A non-nil seed stages a draft from the seed's
// editable fields and primes a validation pass; a nil seed stages an empty
// draft, identified only by a temporary local id, and resets the gate
// (an empty form is provisionally invalid).
func (c *Controller) Open(seed resource.Record) {
	c.mu.Lock()
	c.epoch++
	c.open = true
	c.tempID = ""
	if seed != nil {
		c.seed = resource.Clone(seed)
		c.draft = make(resource.Record, len(c.schema.Fields))
		for _, f := range c.schema.Fields {
			if v, ok := seed[f.Name]; ok {
				c.draft[f.Name] = v
			}
		}
	} else {
		c.seed = nil
		c.draft = make(resource.Record, len(c.schema.Fields))
		c.tempID = c.newID()
	}
	seeded := seed != nil
	c.mu.Unlock()

	if seeded {
		c.gate.PrimeValid(c.validateSnapshot)
	} else {
		c.gate.Reset()
	}
}

// SetField parses raw operator input for the named field, updates the
// draft, and schedules a debounced validation run.
func (c *Controller) SetField(name, raw string) error {
	f, ok := c.schema.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", resource.ErrUnknownField, name)
	}
	value, err := resource.ParseValue(f, raw)
	if err != nil {
		return err
	}
	return c.SetValue(name, value)
}

// SetValue updates one draft field with an already-typed value and
// schedules a debounced validation run.
func (c *Controller) SetValue(name string, value any) error {
	if _, ok := c.schema.Field(name); !ok {
		return fmt.Errorf("%w: %s", resource.ErrUnknownField, name)
	}

	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ErrClosed
	}
	c.draft[name] = value
	c.mu.Unlock()

	c.gate.Schedule(c.validateSnapshot)
	return nil
}

// validateSnapshot checks the draft as it stands when the debounce fires.
func (c *Controller) validateSnapshot() error {
	c.mu.Lock()
	draft := resource.Clone(c.draft)
	c.mu.Unlock()
	return c.schema.Validate(draft)
}

// Submit sends the draft. It is a guarded no-op (ErrDraftNotReady, no
// network call) unless the gate reports a settled valid state; it never
// re-runs validation itself.
//
// Edit: the payload is the seed shallow-merged with the draft (draft wins),
// so seed fields the form does not show survive; on success the cache
// record is merged the same way. Create: the payload is the draft plus
// defaulted booleans coerced to strict bool and, where the schema says so,
// a createDate stamp; on success the server-confirmed entity is appended.
//
// On failure the dialog stays open with the draft intact so the operator
// can retry. A result arriving after Cancel is dropped (ErrCancelled).
func (c *Controller) Submit(ctx context.Context) (resource.Record, error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if !c.gate.CanSubmit() {
		c.mu.Unlock()
		return nil, ErrDraftNotReady
	}

	epoch := c.epoch
	editing := c.seed != nil
	var payload resource.Record
	var id string
	if editing {
		id = resource.PrimaryID(c.seed)
		payload = resource.Merge(c.seed, c.normalizedDraftLocked())
	} else {
		payload = c.normalizedDraftLocked()
		if c.schema.StampCreateDate {
			payload["createDate"] = c.now().UTC().Format(time.RFC3339)
		}
	}
	c.mu.Unlock()

	var entity resource.Record
	var err error
	if editing {
		_, err = c.api.Update(ctx, c.schema.UpdateEndpoint(id), payload)
		entity = payload
	} else {
		entity, err = c.api.Create(ctx, c.schema.CreatePath, payload)
		if err == nil && c.schema.CreatedWrapKey != "" {
			wrapped, ok := entity[c.schema.CreatedWrapKey].(map[string]any)
			if !ok {
				err = fmt.Errorf("create response missing %q object", c.schema.CreatedWrapKey)
			} else {
				entity = resource.Record(wrapped)
			}
		}
	}

	c.mu.Lock()
	if !c.open || c.epoch != epoch {
		c.mu.Unlock()
		return nil, ErrCancelled
	}
	if err != nil {
		// dialog stays open, draft intact, so the operator can retry
		c.mu.Unlock()
		if c.log != nil {
			c.log.Warn(ctx, "submit failed", "resource", c.schema.Singular, "error", err)
		}
		return nil, err
	}

	if editing {
		c.coll.ApplyUpdate(id, entity)
	} else {
		c.coll.ApplyCreate(entity)
	}
	c.open = false
	c.seed = nil
	c.draft = nil
	c.tempID = ""
	c.mu.Unlock()

	c.gate.Reset()
	if c.log != nil {
		c.log.Info(ctx, "saved", "resource", c.schema.Singular, "id", resource.PrimaryID(entity))
	}
	return entity, nil
}

// normalizedDraftLocked copies the draft, filling absent boolean fields
// from their defaults and coercing boolean-like values to strict booleans.
// Caller holds c.mu.
func (c *Controller) normalizedDraftLocked() resource.Record {
	out := resource.Clone(c.draft)
	for _, f := range c.schema.Fields {
		if f.Kind != resource.KindBool {
			continue
		}
		v, ok := out[f.Name]
		if !ok {
			v = f.Default
		}
		out[f.Name] = resource.CoerceBool(v)
	}
	return out
}

// Cancel discards the draft and closes the dialog. Safe to call at any
// time, including mid-validation: the pending timer is cancelled and any
// in-flight submission's result will be dropped.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.open = false
	c.epoch++
	c.seed = nil
	c.draft = nil
	c.tempID = ""
	c.mu.Unlock()

	c.gate.Reset()
}

// IsOpen reports whether the dialog is open.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Editing reports whether the open dialog was seeded with an entity.
func (c *Controller) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed != nil
}

// Draft returns a copy of the current draft fields.
func (c *Controller) Draft() resource.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return resource.Clone(c.draft)
}

// Seed returns the entity the dialog was opened with, or nil.
func (c *Controller) Seed() resource.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seed == nil {
		return nil
	}
	return resource.Clone(c.seed)
}

// TempID returns the local identifier of a not-yet-acknowledged draft.
func (c *Controller) TempID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tempID
}

// Schema returns the dialog's resource schema.
func (c *Controller) Schema() resource.Schema {
	return c.schema
}

// Wait blocks until pending validation settles and returns the gate state.
func (c *Controller) Wait(ctx context.Context) validate.State {
	return c.gate.Wait(ctx)
}

// ValidationErr returns the failure of the last settled validation run.
func (c *Controller) ValidationErr() error {
	return c.gate.Err()
}
