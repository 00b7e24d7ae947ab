// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache implements the bounded entity cache used by the sync
// coordinator.
//
// Entries live in a recency-ordered container with a fixed capacity and a
// per-entry expiration. A secondary index maps request fingerprints to the
// identifiers that satisfied the request the last time it was resolved.
// Every removal from the container, whether caused by capacity pressure,
// expiration or an explicit call, updates the index inside the same call so
// no index entry ever names an identifier that is no longer stored.
package cache

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-gravity/models"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Defaults used when no option overrides them.
const (
	DefaultEntryLifetime = 12 * time.Hour
	DefaultMaxEntries    = 50
)

type entry[E any] struct {
	value     E
	expiresAt time.Time
}

// indexEntry records what a request resolved to.
type indexEntry[ID cmp.Ordered] struct {
	request models.Request[ID]
	keys    map[ID]struct{}
	// evicted holds members dropped by capacity or expiration since the
	// request was last resolved. They make the request incomplete.
	evicted map[ID]struct{}
}

// removal kinds passed to the eviction hook through Cache.removing.
type removal uint8

const (
	removalEvict removal = iota
	removalExplicit
	removalSilent
)

// Cache is a capacity and time bounded store of entities keyed by id.
//
// Cache is safe for concurrent use.
type Cache[ID cmp.Ordered, E models.Entity[ID]] struct {
	mu sync.Mutex

	reference  string
	ttl        time.Duration
	maxEntries int

	lru   *simplelru.LRU[ID, entry[E]]
	index map[string]*indexEntry[ID]

	// removing tells the eviction hook why the current removal happens.
	removing removal

	now      func() time.Time
	onRemove func(id ID)
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// WithEntryLifetime sets how long an inserted entity stays valid.
func WithEntryLifetime(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithMaxEntries sets the capacity.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an empty cache for the given namespace.
func New[ID cmp.Ordered, E models.Entity[ID]](reference string, opts ...Option) (*Cache[ID, E], error) {
	o := options{
		ttl:        DefaultEntryLifetime,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[ID, E]{
		reference:  reference,
		ttl:        o.ttl,
		maxEntries: o.maxEntries,
		index:      make(map[string]*indexEntry[ID]),
		now:        o.now,
	}

	lru, err := simplelru.NewLRU[ID, entry[E]](o.maxEntries, c.evicted)
	if err != nil {
		return nil, fmt.Errorf("error creating lru container: %w", err)
	}
	c.lru = lru

	return c, nil
}

// Reference returns the namespace the cache was created for.
func (c *Cache[ID, E]) Reference() string {
	return c.reference
}

// OnRemove registers fn to be called, under the cache lock, for every id
// leaving the cache except silent removals. fn must not call back into c.
func (c *Cache[ID, E]) OnRemove(fn func(id ID)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRemove = fn
}

// Insert stores value with a fresh expiration and registers its id under
// req. An id previously evicted from any request is healed there too.
func (c *Cache[ID, E]) Insert(value E, req models.Request[ID]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := value.EntityID()
	c.removing = removalEvict
	c.lru.Add(id, entry[E]{value: value, expiresAt: c.now().Add(c.ttl)})

	ie := c.indexFor(req)
	ie.keys[id] = struct{}{}
	delete(ie.evicted, id)

	for _, other := range c.index {
		if _, ok := other.evicted[id]; ok {
			delete(other.evicted, id)
			other.keys[id] = struct{}{}
		}
	}
}

// Get returns the entity stored under id. An expired entry is removed and
// reported as missing.
func (c *Cache[ID, E]) Get(id ID) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(id)
}

func (c *Cache[ID, E]) get(id ID) (E, bool) {
	var zero E

	e, ok := c.lru.Get(id)
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.removing = removalEvict
		c.lru.Remove(id)
		return zero, false
	}
	return e.value, true
}

// GetMany looks up every id and returns the entities still present, in ids
// order, plus the ids that were missing or expired.
func (c *Cache[ID, E]) GetMany(ids []ID) ([]E, []ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := make([]E, 0, len(ids))
	var missing []ID
	for _, id := range ids {
		if v, ok := c.get(id); ok {
			found = append(found, v)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// KeysSatisfying returns the sorted ids that satisfied req when it was last
// resolved. A nil result means req was never resolved; a resolved request
// with no members yields an empty non-nil slice.
func (c *Cache[ID, E]) KeysSatisfying(req models.Request[ID]) []ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	ie, ok := c.index[req.Fingerprint()]
	if !ok {
		return nil
	}
	return sortedKeys(ie.keys)
}

// Evicted returns the sorted ids that left req's resolution through capacity
// or expiration and have not been fetched again.
func (c *Cache[ID, E]) Evicted(req models.Request[ID]) []ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	ie, ok := c.index[req.Fingerprint()]
	if !ok || len(ie.evicted) == 0 {
		return nil
	}
	return sortedKeys(ie.evicted)
}

// AllKnownKeys returns every id currently stored, sorted, or nil when the
// cache is empty.
func (c *Cache[ID, E]) AllKnownKeys() []ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru.Len() == 0 {
		return nil
	}
	return slices.Sorted(slices.Values(c.lru.Keys()))
}

// Remove drops id from the cache and from every index entry.
//
// A silent removal means the id is gone for good (for example a local
// delete): requests that contained it stay complete and OnRemove is not
// called. A loud removal marks those requests incomplete so the next read
// refetches them.
func (c *Cache[ID, E]) Remove(id ID, silently bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kind := removalExplicit
	if silently {
		kind = removalSilent
	}

	c.removing = kind
	if !c.lru.Remove(id) {
		// not stored, still make sure no index names it
		c.unindex(id, kind)
	}
	c.removing = removalEvict
}

// Resolve marks req as known even if nothing satisfied it.
func (c *Cache[ID, E]) Resolve(req models.Request[ID]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexFor(req)
}

// ForgetEvicted drops id from every request's evicted set. It is used once
// the remote source confirmed the id no longer exists.
func (c *Cache[ID, E]) ForgetEvicted(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ie := range c.index {
		delete(ie.evicted, id)
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[ID, E]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// SetLimits changes the entry lifetime for future inserts and the capacity.
// Shrinking the capacity evicts the oldest entries right away.
func (c *Cache[ID, E]) SetLimits(ttl time.Duration, maxEntries int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl > 0 {
		c.ttl = ttl
	}
	if maxEntries > 0 && maxEntries != c.maxEntries {
		c.maxEntries = maxEntries
		c.removing = removalEvict
		c.lru.Resize(maxEntries)
	}
}

// Reset empties the cache and its index without calling OnRemove.
func (c *Cache[ID, E]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removing = removalSilent
	c.lru.Purge()
	c.removing = removalEvict
	c.index = make(map[string]*indexEntry[ID])
}

// evicted is the container's eviction callback. It runs synchronously
// inside Add, Get, Remove, Resize and Purge while c.mu is held.
func (c *Cache[ID, E]) evicted(id ID, _ entry[E]) {
	c.unindex(id, c.removing)
	if c.removing != removalSilent && c.onRemove != nil {
		c.onRemove(id)
	}
}

func (c *Cache[ID, E]) unindex(id ID, kind removal) {
	for _, ie := range c.index {
		if _, ok := ie.keys[id]; !ok {
			continue
		}
		delete(ie.keys, id)
		if kind != removalSilent {
			ie.evicted[id] = struct{}{}
		}
	}
}

func (c *Cache[ID, E]) indexFor(req models.Request[ID]) *indexEntry[ID] {
	fp := req.Fingerprint()
	ie, ok := c.index[fp]
	if !ok {
		ie = &indexEntry[ID]{
			request: req,
			keys:    make(map[ID]struct{}),
			evicted: make(map[ID]struct{}),
		}
		c.index[fp] = ie
	}
	return ie
}

func sortedKeys[ID cmp.Ordered](set map[ID]struct{}) []ID {
	out := slices.Sorted(maps.Keys(set))
	if out == nil {
		out = []ID{}
	}
	return out
}
