// Package cache holds the in-memory canonical copy of one resource
// collection: ordered, unique by id, reconciled against server responses.
package cache

import (
	"strings"

	"storeadmin/internal/resource"
)

// Cache is the collection for one resource type. Records keep their
// insertion order so the table renders stably; ids are unique.
//
// The cache is written only from the REPL goroutine, after a transport
// result is known, so it carries no lock of its own.
type Cache struct {
	wrapKeys []string
	order    []string
	items    map[string]resource.Record
}

// New returns an empty cache. wrapKeys are the envelope fields a list
// response may wrap the sequence under, in addition to a bare array.
func New(wrapKeys ...string) *Cache {
	return &Cache{
		wrapKeys: wrapKeys,
		items:    make(map[string]resource.Record),
	}
}

// Reload replaces the whole collection from a decoded list response. This
// is the only full-list replacement; everything later is a keyed merge.
//
// Accepted shapes: a bare sequence, or an object wrapping the sequence
// under one of the configured keys. Anything else empties the cache rather
// than failing the screen. Elements without a derivable id are skipped.
// Returns the number of records loaded.
func (c *Cache) Reload(payload any) int {
	c.order = c.order[:0]
	c.items = make(map[string]resource.Record)

	for _, el := range extractSequence(payload, c.wrapKeys) {
		rec, ok := el.(map[string]any)
		if !ok {
			continue
		}
		id := resource.PrimaryID(rec)
		if id == "" {
			continue
		}
		if _, exists := c.items[id]; !exists {
			c.order = append(c.order, id)
		}
		c.items[id] = resource.Record(rec)
	}
	return len(c.order)
}

func extractSequence(payload any, wrapKeys []string) []any {
	switch v := payload.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range wrapKeys {
			if seq, ok := v[key].([]any); ok {
				return seq
			}
		}
	}
	return nil
}

// ApplyCreate appends a server-confirmed entity. Creation is confirm-then-
// insert: callers never stage an optimistic placeholder, so a failed request
// leaves no ghost row. If the id is somehow already present the record is
// merged in place instead of duplicated.
func (c *Cache) ApplyCreate(rec resource.Record) {
	id := resource.PrimaryID(rec)
	if id == "" {
		return
	}
	if existing, ok := c.items[id]; ok {
		c.items[id] = resource.Merge(existing, rec)
		return
	}
	c.order = append(c.order, id)
	c.items[id] = resource.Clone(rec)
}

// ApplyUpdate shallow-merges patch onto the record with the given id,
// keeping fields the patch does not mention. An unknown id is a no-op: the
// response may refer to an entity a concurrent refresh already dropped.
func (c *Cache) ApplyUpdate(id string, patch resource.Record) {
	existing, ok := c.items[id]
	if !ok {
		return
	}
	c.items[id] = resource.Merge(existing, patch)
}

// Get returns the record with the given id.
func (c *Cache) Get(id string) (resource.Record, bool) {
	rec, ok := c.items[id]
	return rec, ok
}

// All returns the collection in insertion order.
func (c *Cache) All() []resource.Record {
	out := make([]resource.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// Len reports the number of records held.
func (c *Cache) Len() int {
	return len(c.order)
}

// FilterContains returns, in insertion order, the records whose field
// contains substr case-insensitively. An empty substr returns everything.
func (c *Cache) FilterContains(field, substr string) []resource.Record {
	if substr == "" {
		return c.All()
	}
	needle := strings.ToLower(substr)
	var out []resource.Record
	for _, id := range c.order {
		rec := c.items[id]
		if s, ok := rec[field].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			out = append(out, rec)
		}
	}
	return out
}
