// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
)

// RequestKind tags the shape of a [Request].
type RequestKind string

const (
	// KindAll selects every entity of a type.
	KindAll RequestKind = "all"
	// KindIDs selects an ordered set of identifiers.
	KindIDs RequestKind = "ids"
	// KindID selects a single identifier.
	KindID RequestKind = "id"
)

// allFingerprint is the index key used for [KindAll] requests.
const allFingerprint = "*"

// EmptyDifference decides what a difference between two id selections
// evaluates to when nothing is left.
type EmptyDifference uint8

const (
	// EmptyDifferenceAsAll promotes an empty result to [All]. This keeps the
	// historical behaviour where "nothing left" reads as "refetch everything".
	EmptyDifferenceAsAll EmptyDifference = iota
	// EmptyDifferenceAsEmpty keeps an empty result as an empty id selection.
	EmptyDifferenceAsEmpty
)

// Request describes which entities an operation is about.
//
// The zero value is not a valid request; use [All], [IDs] or [One].
type Request[ID cmp.Ordered] struct {
	Kind RequestKind `json:"kind"`
	IDs  []ID        `json:"ids,omitempty"`
}

// All returns a request selecting every entity.
func All[ID cmp.Ordered]() Request[ID] {
	return Request[ID]{Kind: KindAll}
}

// IDs returns a request selecting the given identifiers. Duplicates are
// dropped, first occurrence wins.
func IDs[ID cmp.Ordered](ids ...ID) Request[ID] {
	return Request[ID]{Kind: KindIDs, IDs: dedupe(ids)}
}

// One returns a request selecting a single identifier.
func One[ID cmp.Ordered](id ID) Request[ID] {
	return Request[ID]{Kind: KindID, IDs: []ID{id}}
}

// IsAll reports whether r selects every entity.
func (r Request[ID]) IsAll() bool {
	return r.Kind == KindAll
}

// IsEmpty reports whether r is an id selection with nothing in it.
func (r Request[ID]) IsEmpty() bool {
	return !r.IsAll() && len(r.IDs) == 0
}

// Keys returns a copy of the selected identifiers in request order.
// It is nil for [KindAll].
func (r Request[ID]) Keys() []ID {
	if r.IsAll() {
		return nil
	}
	return slices.Clone(r.IDs)
}

// Contains reports whether id is selected by r.
func (r Request[ID]) Contains(id ID) bool {
	return r.IsAll() || slices.Contains(r.IDs, id)
}

// Union merges two requests.
//
// All absorbs either operand. Two equal single ids collapse to the left one,
// two different ones become an id set. A single id joins a set if it is not
// already there; id sets merge keeping the order of first appearance.
func (r Request[ID]) Union(o Request[ID]) Request[ID] {
	if r.IsAll() || o.IsAll() {
		return All[ID]()
	}

	switch {
	case r.Kind == KindID && o.Kind == KindID:
		if r.IDs[0] == o.IDs[0] {
			return r
		}
		return IDs(r.IDs[0], o.IDs[0])
	case r.Kind == KindID:
		if slices.Contains(o.IDs, r.IDs[0]) {
			return o
		}
		return Request[ID]{Kind: KindIDs, IDs: append([]ID{r.IDs[0]}, o.IDs...)}
	case o.Kind == KindID:
		if slices.Contains(r.IDs, o.IDs[0]) {
			return r
		}
		return Request[ID]{Kind: KindIDs, IDs: append(slices.Clone(r.IDs), o.IDs[0])}
	default:
		return IDs(append(slices.Clone(r.IDs), o.IDs...)...)
	}
}

// Difference is DifferenceWith using [EmptyDifferenceAsAll].
func (r Request[ID]) Difference(o Request[ID]) Request[ID] {
	return r.DifferenceWith(o, EmptyDifferenceAsAll)
}

// DifferenceWith removes the identifiers selected by o from r.
//
// Subtracting All always leaves an empty id selection. Only an id set minus
// an id set is filtered: the remaining identifiers keep their order and an
// empty remainder is resolved by policy. Every other shape returns r
// unchanged.
func (r Request[ID]) DifferenceWith(o Request[ID], policy EmptyDifference) Request[ID] {
	if o.IsAll() {
		return Request[ID]{Kind: KindIDs, IDs: []ID{}}
	}
	if r.Kind != KindIDs || o.Kind != KindIDs {
		return r
	}

	left := make([]ID, 0, len(r.IDs))
	for _, id := range r.IDs {
		if !slices.Contains(o.IDs, id) {
			left = append(left, id)
		}
	}

	if len(left) == 0 {
		if policy == EmptyDifferenceAsAll {
			return All[ID]()
		}
		return Request[ID]{Kind: KindIDs, IDs: []ID{}}
	}
	return Request[ID]{Kind: KindIDs, IDs: left}
}

// Compact turns a one-element id set into a single-id request.
func (r Request[ID]) Compact() Request[ID] {
	if r.Kind == KindIDs && len(r.IDs) == 1 {
		return One(r.IDs[0])
	}
	return r
}

// Equal reports whether both requests select the same shape and ids,
// ignoring order.
func (r Request[ID]) Equal(o Request[ID]) bool {
	return r.Kind == o.Kind && r.Fingerprint() == o.Fingerprint()
}

// Fingerprint returns the canonical index key of r: "*" for All, otherwise
// the sorted identifier list encoded as JSON. A single id and a one-element
// id set share a fingerprint.
func (r Request[ID]) Fingerprint() string {
	if r.IsAll() {
		return allFingerprint
	}

	sorted := slices.Sorted(slices.Values(r.IDs))
	if sorted == nil {
		sorted = []ID{}
	}
	b, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Sprint(sorted)
	}
	return string(b)
}

// String implements fmt.Stringer.
func (r Request[ID]) String() string {
	if r.IsAll() {
		return "all"
	}
	return fmt.Sprintf("%s%v", r.Kind, r.IDs)
}

// Validate checks that r is well formed.
func (r Request[ID]) Validate() error {
	switch r.Kind {
	case KindAll:
		return nil
	case KindIDs:
		return nil
	case KindID:
		if len(r.IDs) != 1 {
			return fmt.Errorf("%w: single id request carries %d ids", ErrInvalidRequest, len(r.IDs))
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRequest, r.Kind)
	}
}

func dedupe[ID cmp.Ordered](ids []ID) []ID {
	out := make([]ID, 0, len(ids))
	seen := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
