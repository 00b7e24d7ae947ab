package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-gravity/internal/adapter"
	"github.com/MKhiriev/go-gravity/models"
	"golang.org/x/sync/errgroup"
)

// syncSnapshot is the set of intents one Sync works on.
type syncSnapshot[ID cmp.Ordered, E any] struct {
	push map[ID]uint64
	pop  map[ID]popIntent[E]
	pull []pullIntent[ID]
}

// Sync pushes queued writes, then pops queued deletes, then pulls queued
// selections, and checkpoints.
//
// The intents are captured once at the start. A phase clears only the
// intents it sent and the remote side confirmed; anything queued while the
// sync runs stays for the next one. Phases fail independently and their
// errors are joined, each wrapped in [ErrPushFailed], [ErrPopFailed] or
// [ErrPullFailed].
func (c *Coordinator[ID, E]) Sync(ctx context.Context) error {
	if !c.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer c.syncing.Store(false)

	snap := c.captureIntents()

	var errs []error
	if err := c.pushPhase(ctx, snap.push); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrPushFailed, err))
	}
	if err := c.popPhase(ctx, snap.pop); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrPopFailed, err))
	}
	if err := c.pullPhase(ctx, snap.pull); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrPullFailed, err))
	}
	if err := c.Checkpoint(ctx); err != nil {
		errs = append(errs, err)
	}

	c.notify()

	err := errors.Join(errs...)
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "*Coordinator.Sync").Str("reference", c.reference).Msg("sync finished with errors")
	}
	return err
}

func (c *Coordinator[ID, E]) captureIntents() syncSnapshot[ID, E] {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := syncSnapshot[ID, E]{
		push: make(map[ID]uint64, len(c.needPush)),
		pop:  make(map[ID]popIntent[E], len(c.needPop)),
		pull: make([]pullIntent[ID], 0, len(c.needPull)),
	}
	for id, seq := range c.needPush {
		snap.push[id] = seq
	}
	for id, pi := range c.needPop {
		snap.pop[id] = pi
	}
	for _, fp := range sortedIDs(c.needPull) {
		snap.pull = append(snap.pull, c.needPull[fp])
	}
	return snap
}

func (c *Coordinator[ID, E]) pushPhase(ctx context.Context, snap map[ID]uint64) error {
	if len(snap) == 0 {
		return nil
	}

	c.mu.Lock()
	found, missing := c.cache.GetMany(sortedIDs(snap))
	for _, id := range missing {
		if c.needPush[id] == snap[id] {
			delete(c.needPush, id)
		}
		c.logger.Warn().Str("func", "*Coordinator.pushPhase").Any("id", id).Msg("entity left the cache before push, intent dropped")
	}
	c.mu.Unlock()

	if len(found) == 0 {
		return nil
	}
	if err := c.delegate.Push(ctx, found); err != nil {
		return err
	}

	c.mu.Lock()
	for _, e := range found {
		id := e.EntityID()
		if seq, ok := c.needPush[id]; ok && seq == snap[id] {
			delete(c.needPush, id)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Coordinator[ID, E]) popPhase(ctx context.Context, snap map[ID]popIntent[E]) error {
	if len(snap) == 0 {
		return nil
	}

	ids := sortedIDs(snap)
	entities := make([]E, 0, len(ids))
	for _, id := range ids {
		entities = append(entities, snap[id].entity)
	}

	err := c.delegate.Pop(ctx, entities)
	if errors.Is(err, adapter.ErrUnsupported) {
		c.logger.Warn().Str("func", "*Coordinator.popPhase").Int("count", len(ids)).Msg("remote deletion unsupported, intents dropped")
		err = nil
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	for _, id := range ids {
		if pi, ok := c.needPop[id]; ok && pi.seq == snap[id].seq {
			delete(c.needPop, id)
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *Coordinator[ID, E]) pullPhase(ctx context.Context, snap []pullIntent[ID]) error {
	if len(snap) == 0 {
		return nil
	}

	merged := snap[0].req
	for _, pi := range snap[1:] {
		merged = merged.Union(pi.req)
	}

	entities, done, err := c.fetch(ctx, merged)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.applyPull(entities, snap, done)

	for _, pi := range snap {
		fp := pi.req.Fingerprint()
		cur, ok := c.needPull[fp]
		if !ok || cur.seq != pi.seq {
			continue
		}
		remaining := unfetched(pi.req, done)
		switch {
		case remaining.IsEmpty():
			delete(c.needPull, fp)
		case !remaining.Equal(pi.req):
			delete(c.needPull, fp)
			c.addPull(remaining.Compact())
		}
	}

	return err
}

// unfetched returns the part of req that done did not cover: req itself when
// nothing of it was fetched, an empty id selection when all of it was.
func unfetched[ID cmp.Ordered](req, done models.Request[ID]) models.Request[ID] {
	if done.IsAll() {
		return models.IDs[ID]()
	}
	if req.IsAll() {
		return req
	}

	keys := req.Keys()
	left := make([]ID, 0, len(keys))
	for _, id := range keys {
		if !done.Contains(id) {
			left = append(left, id)
		}
	}
	if len(left) == len(keys) {
		return req
	}
	return models.IDs(left...)
}

// fetch pulls merged. An id selection is split into batches fetched
// concurrently; done selects what was fetched successfully.
func (c *Coordinator[ID, E]) fetch(ctx context.Context, merged models.Request[ID]) ([]E, models.Request[ID], error) {
	if merged.IsAll() {
		entities, err := c.delegate.Pull(ctx, merged)
		if err != nil {
			return nil, models.IDs[ID](), err
		}
		return entities, merged, nil
	}

	chunks := slices.Collect(slices.Chunk(merged.Keys(), c.pullBatchSize))
	results := make([][]E, len(chunks))
	errs := make([]error, len(chunks))

	var g errgroup.Group
	g.SetLimit(maxConcurrentPulls)
	for i, chunk := range chunks {
		g.Go(func() error {
			results[i], errs[i] = c.delegate.Pull(ctx, models.IDs(chunk...).Compact())
			return errs[i]
		})
	}

	var err error
	if g.Wait() != nil {
		err = errors.Join(errs...)
	}

	var entities []E
	var fetched []ID
	for i, chunk := range chunks {
		if errs[i] != nil {
			continue
		}
		entities = append(entities, results[i]...)
		fetched = append(fetched, chunk...)
	}

	return entities, models.IDs(fetched...), err
}

// applyPull must be called with c.mu held.
func (c *Coordinator[ID, E]) applyPull(entities []E, snap []pullIntent[ID], done models.Request[ID]) {
	returned := make(map[ID]struct{}, len(entities))
	for _, e := range entities {
		id := e.EntityID()
		returned[id] = struct{}{}
		if c.pendingLocally(id) {
			continue
		}
		for _, pi := range snap {
			if pi.req.Contains(id) {
				c.cache.Insert(e, pi.req)
			}
		}
	}

	for _, pi := range snap {
		if covers(done, pi.req) {
			c.cache.Resolve(pi.req)
		}
	}

	// fetched but not returned means deleted remotely
	var gone []ID
	if done.IsAll() {
		gone = append(c.cache.KeysSatisfying(done), c.cache.Evicted(done)...)
	} else {
		gone = done.Keys()
	}
	for _, id := range gone {
		if _, ok := returned[id]; ok {
			continue
		}
		if _, ok := c.needPush[id]; !ok {
			c.cache.Remove(id, true)
		}
		c.cache.ForgetEvicted(id)
	}
}

// covers reports whether every id selected by req was fetched.
func covers[ID cmp.Ordered](done, req models.Request[ID]) bool {
	if done.IsAll() {
		return true
	}
	if req.IsAll() {
		return false
	}
	fetched := done.Keys()
	for _, id := range req.Keys() {
		if !slices.Contains(fetched, id) {
			return false
		}
	}
	return true
}
