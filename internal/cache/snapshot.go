// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cache

import (
	"cmp"
	"fmt"
	"time"

	"github.com/MKhiriev/go-gravity/models"
)

// Snapshot is the serializable state of a Cache.
type Snapshot[ID cmp.Ordered, E any] struct {
	Reference     string                 `json:"reference"`
	EntryLifetime time.Duration          `json:"entry_lifetime"`
	MaxEntries    int                    `json:"max_entries"`
	Entries       []SnapshotEntry[ID, E] `json:"entries"`
	Index         []SnapshotIndex[ID]    `json:"index"`
}

// SnapshotEntry is one stored entity, listed from least to most recently used.
type SnapshotEntry[ID cmp.Ordered, E any] struct {
	ID        ID        `json:"id"`
	Value     E         `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SnapshotIndex is one request index entry.
type SnapshotIndex[ID cmp.Ordered] struct {
	Request models.Request[ID] `json:"request"`
	Keys    []ID               `json:"keys"`
	Evicted []ID               `json:"evicted,omitempty"`
}

// Snapshot captures the full cache state without touching recency.
func (c *Cache[ID, E]) Snapshot() Snapshot[ID, E] {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot[ID, E]{
		Reference:     c.reference,
		EntryLifetime: c.ttl,
		MaxEntries:    c.maxEntries,
		Entries:       make([]SnapshotEntry[ID, E], 0, c.lru.Len()),
		Index:         make([]SnapshotIndex[ID], 0, len(c.index)),
	}

	for _, id := range c.lru.Keys() {
		e, ok := c.lru.Peek(id)
		if !ok {
			continue
		}
		snap.Entries = append(snap.Entries, SnapshotEntry[ID, E]{ID: id, Value: e.value, ExpiresAt: e.expiresAt})
	}

	for _, ie := range c.index {
		si := SnapshotIndex[ID]{
			Request: ie.request,
			Keys:    sortedKeys(ie.keys),
		}
		if len(ie.evicted) > 0 {
			si.Evicted = sortedKeys(ie.evicted)
		}
		snap.Index = append(snap.Index, si)
	}

	return snap
}

// Restore replaces the cache state with snap. The snapshot must belong to
// the same namespace. Lifetime and capacity are taken from the snapshot;
// callers that want configured limits apply them afterwards with SetLimits.
// Entries already expired are skipped and marked evicted in the index.
func (c *Cache[ID, E]) Restore(snap Snapshot[ID, E]) error {
	if snap.Reference != c.reference {
		return fmt.Errorf("%w: have %q, snapshot is %q", ErrReferenceMismatch, c.reference, snap.Reference)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removing = removalSilent
	c.lru.Purge()
	c.removing = removalEvict

	if snap.EntryLifetime > 0 {
		c.ttl = snap.EntryLifetime
	}
	if snap.MaxEntries > 0 && snap.MaxEntries != c.maxEntries {
		c.maxEntries = snap.MaxEntries
		c.lru.Resize(snap.MaxEntries)
	}

	c.index = make(map[string]*indexEntry[ID], len(snap.Index))
	for _, si := range snap.Index {
		ie := c.indexFor(si.Request)
		for _, id := range si.Keys {
			ie.keys[id] = struct{}{}
		}
		for _, id := range si.Evicted {
			ie.evicted[id] = struct{}{}
		}
	}

	now := c.now()
	for _, se := range snap.Entries {
		if !now.Before(se.ExpiresAt) {
			continue
		}
		c.lru.Add(se.ID, entry[E]{value: se.Value, expiresAt: se.ExpiresAt})
	}

	// index members with no surviving entry are treated as evicted
	for _, ie := range c.index {
		for id := range ie.keys {
			if c.lru.Contains(id) {
				continue
			}
			delete(ie.keys, id)
			ie.evicted[id] = struct{}{}
		}
	}

	return nil
}
