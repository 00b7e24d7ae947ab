// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-gravity/internal/adapter"
	"github.com/MKhiriev/go-gravity/internal/cache"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/store"
	"github.com/MKhiriev/go-gravity/models"
)

// Coordinator keeps a bounded local cache of E in step with a remote source.
//
// Reads and writes only touch the cache and record intents; a [Scheduler]
// later runs Sync, which pushes local writes, pops local deletes and pulls
// missing selections. Every cache and intent mutation happens under one
// mutex. Network calls run outside it and their results are applied under
// it again.
type Coordinator[ID cmp.Ordered, E models.Entity[ID]] struct {
	mu sync.Mutex
	// saveMu orders snapshot writes. It is taken before mu, never after.
	saveMu sync.Mutex

	ctx       context.Context
	reference string
	cache     *cache.Cache[ID, E]
	delegate  adapter.RemoteDelegate[ID, E]
	snapshots store.SnapshotStore
	scheduler SyncScheduler

	pullBatchSize int

	// Intents carry the sequence number of their last change so a sync
	// only clears what it actually sent.
	seq      uint64
	needPush map[ID]uint64
	needPull map[string]pullIntent[ID]
	needPop  map[ID]popIntent[E]

	syncing atomic.Bool
	changes chan struct{}

	logger *logger.Logger
}

type pullIntent[ID cmp.Ordered] struct {
	req models.Request[ID]
	seq uint64
}

type popIntent[E any] struct {
	entity E
	seq    uint64
}

// PendingIntents counts work not yet confirmed by the remote side.
type PendingIntents struct {
	Push int
	Pull int
	Pop  int
}

// NewCoordinator creates a coordinator for the namespace reference and
// restores its persisted state.
//
// A snapshot that cannot be decoded or belongs to another namespace is
// deleted and reported as [store.ErrSnapshotCorrupted]; constructing the
// coordinator again starts from an empty cache.
func NewCoordinator[ID cmp.Ordered, E models.Entity[ID]](
	ctx context.Context,
	reference string,
	delegate adapter.RemoteDelegate[ID, E],
	snapshots store.SnapshotStore,
	opts ...CoordinatorOption,
) (*Coordinator[ID, E], error) {
	o := coordinatorOptions{
		pullBatchSize: DefaultPullBatchSize,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	cacheOpts := []cache.Option{
		cache.WithEntryLifetime(o.entryLifetime),
		cache.WithMaxEntries(o.maxEntries),
	}
	if o.now != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.now))
	}
	entities, err := cache.New[ID, E](reference, cacheOpts...)
	if err != nil {
		return nil, fmt.Errorf("error creating cache: %w", err)
	}

	c := &Coordinator[ID, E]{
		ctx:           ctx,
		reference:     reference,
		cache:         entities,
		delegate:      delegate,
		snapshots:     snapshots,
		pullBatchSize: o.pullBatchSize,
		needPush:      make(map[ID]uint64),
		needPull:      make(map[string]pullIntent[ID]),
		needPop:       make(map[ID]popIntent[E]),
		changes:       make(chan struct{}, 1),
		logger:        o.logger,
	}
	entities.OnRemove(func(ID) { c.notify() })

	if o.scheduler != nil {
		c.scheduler = o.scheduler(c.Sync)
	} else {
		c.scheduler = NewScheduler(ctx, c.Sync, o.logger)
	}

	if err = c.load(ctx, o); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Coordinator[ID, E]) load(ctx context.Context, o coordinatorOptions) error {
	state, err := store.LoadSnapshot[coordinatorState[ID, E]](ctx, c.snapshots, c.reference)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("error loading snapshot %q: %w", c.reference, err)
	}

	if err = c.cache.Restore(state.Cache); err != nil {
		if delErr := c.snapshots.Delete(ctx, c.reference); delErr != nil {
			err = errors.Join(err, delErr)
		}
		return fmt.Errorf("%w: %w", store.ErrSnapshotCorrupted, err)
	}
	c.cache.SetLimits(o.entryLifetime, o.maxEntries)

	for _, id := range state.NeedPush {
		c.needPush[id] = c.nextSeq()
	}
	for _, req := range state.NeedPull {
		c.addPull(req)
	}
	for _, e := range state.NeedPop {
		c.needPop[e.EntityID()] = popIntent[E]{entity: e, seq: c.nextSeq()}
	}

	c.logger.Debug().
		Str("func", "*Coordinator.load").
		Str("reference", c.reference).
		Int("entries", c.cache.Len()).
		Msg("snapshot restored")
	return nil
}

// Reference returns the namespace of the coordinator.
func (c *Coordinator[ID, E]) Reference() string {
	return c.reference
}

// Read returns what the cache knows about req without waiting for the
// network.
//
// An unresolved request yields an empty result and is queued for pull. A
// resolved request whose members were evicted or expired yields the members
// still present and queues the missing ones. The result goes through the
// delegate's Process hook.
func (c *Coordinator[ID, E]) Read(req models.Request[ID]) []E {
	c.mu.Lock()
	keys := c.cache.KeysSatisfying(req)
	if keys == nil {
		c.addPull(req)
		c.mu.Unlock()

		c.notify()
		c.scheduler.Trigger(0)
		return c.delegate.Process([]E{}, req)
	}

	found, missing := c.cache.GetMany(keys)
	missing = append(missing, c.cache.Evicted(req)...)
	if len(missing) > 0 {
		if req.IsAll() {
			c.addPull(req)
		} else {
			c.addPull(models.IDs(missing...).Compact())
		}
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		c.notify()
		c.scheduler.Trigger(0)
	}
	return c.delegate.Process(found, req)
}

// Get returns the cached entity with id. A miss queues a pull of that id.
func (c *Coordinator[ID, E]) Get(id ID) (E, bool) {
	c.mu.Lock()
	v, ok := c.cache.Get(id)
	if !ok {
		c.addPull(models.One(id))
	}
	c.mu.Unlock()

	if !ok {
		c.notify()
		c.scheduler.Trigger(0)
	}
	return v, ok
}

// Write stores e in the cache under req right away. With [PushAfter] it is
// also queued for push; repeated writes before the sync runs collapse into
// one push.
func (c *Coordinator[ID, E]) Write(e E, req models.Request[ID], opts ...WriteOption) {
	var o intentOptions
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	c.write(e, req, o)
	c.mu.Unlock()

	c.notify()
	if o.remote {
		c.scheduler.Trigger(o.delay)
	}
}

// Update applies mutate to the cached entity with id and stores the result
// like Write. It reports false when id is not cached or mutate changed the
// identifier.
func (c *Coordinator[ID, E]) Update(id ID, req models.Request[ID], mutate func(*E), opts ...WriteOption) bool {
	var o intentOptions
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	v, ok := c.cache.Get(id)
	if !ok {
		c.mu.Unlock()
		return false
	}
	mutate(&v)
	if v.EntityID() != id {
		c.mu.Unlock()
		c.logger.Warn().Err(ErrIDChanged).Str("func", "*Coordinator.Update").Any("id", id).Msg("update rejected")
		return false
	}
	c.write(v, req, o)
	c.mu.Unlock()

	c.notify()
	if o.remote {
		c.scheduler.Trigger(o.delay)
	}
	return true
}

func (c *Coordinator[ID, E]) write(e E, req models.Request[ID], o intentOptions) {
	id := e.EntityID()
	c.cache.Insert(e, req)
	delete(c.needPop, id)
	if o.remote {
		c.needPush[id] = c.nextSeq()
	}
}

// Delete drops e from the cache right away and checkpoints. With [PopAfter]
// the remote deletion is queued.
func (c *Coordinator[ID, E]) Delete(e E, opts ...DeleteOption) {
	var o intentOptions
	for _, opt := range opts {
		opt(&o)
	}

	id := e.EntityID()
	c.mu.Lock()
	c.cache.Remove(id, true)
	c.cache.ForgetEvicted(id)
	delete(c.needPush, id)
	if o.remote {
		c.needPop[id] = popIntent[E]{entity: e, seq: c.nextSeq()}
	}
	c.mu.Unlock()

	c.notify()
	if err := c.Checkpoint(c.ctx); err != nil {
		c.logger.Warn().Err(err).Str("func", "*Coordinator.Delete").Msg("checkpoint after delete failed")
	}
	if o.remote {
		c.scheduler.Trigger(o.delay)
	}
}

// Revalidate queues req for pull and schedules a sync now.
func (c *Coordinator[ID, E]) Revalidate(req models.Request[ID]) {
	c.mu.Lock()
	c.addPull(req)
	c.mu.Unlock()

	c.notify()
	c.scheduler.Trigger(0)
}

// Apply folds entities received outside a sync, such as realtime updates,
// into the cache under req, the selection they were delivered for. Entities
// with a local change still pending are left alone. When req was never
// resolved it is queued for pull, so the partial resolution gets completed.
func (c *Coordinator[ID, E]) Apply(entities []E, req models.Request[ID]) {
	c.mu.Lock()
	unresolved := c.cache.KeysSatisfying(req) == nil
	for _, e := range entities {
		if c.pendingLocally(e.EntityID()) {
			continue
		}
		c.cache.Insert(e, req)
	}
	if unresolved {
		c.addPull(req)
	}
	c.mu.Unlock()

	c.notify()
	if unresolved {
		c.scheduler.Trigger(0)
	}
}

// ApplyRemoval drops ids deleted remotely. An id with a pending push is kept.
func (c *Coordinator[ID, E]) ApplyRemoval(ids []ID) {
	c.mu.Lock()
	for _, id := range ids {
		if _, ok := c.needPush[id]; ok {
			continue
		}
		c.cache.Remove(id, true)
		c.cache.ForgetEvicted(id)
		delete(c.needPop, id)
	}
	c.mu.Unlock()

	c.notify()
}

// Trigger schedules a sync after delay. See [Scheduler.Trigger].
func (c *Coordinator[ID, E]) Trigger(delay time.Duration) bool {
	return c.scheduler.Trigger(delay)
}

// Wait blocks until a scheduled sync has run.
func (c *Coordinator[ID, E]) Wait() {
	c.scheduler.Wait()
}

// Changes delivers a signal after the cache or the intents changed. Signals
// coalesce: a slow reader sees one signal for many changes.
func (c *Coordinator[ID, E]) Changes() <-chan struct{} {
	return c.changes
}

// Len returns the number of cached entities.
func (c *Coordinator[ID, E]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Cached returns every cached entity, whatever request it was stored
// under. It never queues a pull.
func (c *Coordinator[ID, E]) Cached() []E {
	c.mu.Lock()
	defer c.mu.Unlock()

	found, _ := c.cache.GetMany(c.cache.AllKnownKeys())
	return found
}

// Pending counts queued intents.
func (c *Coordinator[ID, E]) Pending() PendingIntents {
	c.mu.Lock()
	defer c.mu.Unlock()

	return PendingIntents{
		Push: len(c.needPush),
		Pull: len(c.needPull),
		Pop:  len(c.needPop),
	}
}

// Checkpoint persists the cache and the intents.
//
// Concurrent checkpoints are serialized, so the snapshot written last is
// always the most recent state.
func (c *Coordinator[ID, E]) Checkpoint(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	state := c.state()
	c.mu.Unlock()

	if err := store.SaveSnapshot(ctx, c.snapshots, c.reference, state); err != nil {
		return fmt.Errorf("error saving snapshot %q: %w", c.reference, err)
	}
	return nil
}

// Close stops the scheduler and checkpoints.
func (c *Coordinator[ID, E]) Close(ctx context.Context) error {
	c.scheduler.Stop()
	return c.Checkpoint(ctx)
}

// Reset forgets every cached entity and intent and deletes the persisted
// snapshot.
func (c *Coordinator[ID, E]) Reset(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	c.cache.Reset()
	clear(c.needPush)
	clear(c.needPull)
	clear(c.needPop)
	c.mu.Unlock()

	c.notify()
	if err := c.snapshots.Delete(ctx, c.reference); err != nil {
		return fmt.Errorf("error deleting snapshot %q: %w", c.reference, err)
	}
	return nil
}

// addPull must be called with c.mu held. Re-adding a request refreshes its
// sequence so an in-flight sync keeps it.
func (c *Coordinator[ID, E]) addPull(req models.Request[ID]) {
	if req.IsEmpty() {
		return
	}
	c.needPull[req.Fingerprint()] = pullIntent[ID]{req: req, seq: c.nextSeq()}
}

func (c *Coordinator[ID, E]) pendingLocally(id ID) bool {
	if _, ok := c.needPush[id]; ok {
		return true
	}
	_, ok := c.needPop[id]
	return ok
}

func (c *Coordinator[ID, E]) nextSeq() uint64 {
	c.seq++
	return c.seq
}

func (c *Coordinator[ID, E]) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func sortedIDs[ID cmp.Ordered, V any](m map[ID]V) []ID {
	return slices.Sorted(maps.Keys(m))
}
