package service

import (
	"cmp"

	"github.com/MKhiriev/go-gravity/internal/cache"
	"github.com/MKhiriev/go-gravity/models"
)

// coordinatorState is what a checkpoint persists.
type coordinatorState[ID cmp.Ordered, E models.Entity[ID]] struct {
	Cache    cache.Snapshot[ID, E] `json:"cache"`
	NeedPush []ID                  `json:"need_push,omitempty"`
	NeedPull []models.Request[ID]  `json:"need_pull,omitempty"`
	NeedPop  []E                   `json:"need_pop,omitempty"`
}

// state must be called with c.mu held.
func (c *Coordinator[ID, E]) state() coordinatorState[ID, E] {
	st := coordinatorState[ID, E]{
		Cache:    c.cache.Snapshot(),
		NeedPush: sortedIDs(c.needPush),
	}
	for _, fp := range sortedIDs(c.needPull) {
		st.NeedPull = append(st.NeedPull, c.needPull[fp].req)
	}
	for _, id := range sortedIDs(c.needPop) {
		st.NeedPop = append(st.NeedPop, c.needPop[id].entity)
	}
	return st
}
