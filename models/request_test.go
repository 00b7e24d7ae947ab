// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Union ────────────────────────────────────────────────────────────────────

func TestRequest_Union(t *testing.T) {
	tests := []struct {
		name string
		lhs  Request[int]
		rhs  Request[int]
		want Request[int]
	}{
		{"ids plus overlapping ids", IDs(1), IDs(1, 2), IDs(1, 2)},
		{"ids plus ids keeps first order", IDs(3, 1), IDs(2, 3), IDs(3, 1, 2)},
		{"all absorbs ids", All[int](), IDs(1, 2), All[int]()},
		{"ids absorbed by all", IDs(1, 2), All[int](), All[int]()},
		{"all absorbs id", All[int](), One(7), All[int]()},
		{"id plus different id", One(1), One(2), IDs(1, 2)},
		{"id plus same id", One(1), One(1), One(1)},
		{"id plus ids without it prepends", One(1), IDs(2, 3), IDs(1, 2, 3)},
		{"id plus ids with it", One(2), IDs(2, 3), IDs(2, 3)},
		{"ids plus id without it appends", IDs(2, 3), One(1), IDs(2, 3, 1)},
		{"ids plus id with it", IDs(2, 3), One(3), IDs(2, 3)},
		{"empty ids plus id", IDs[int](), One(4), IDs(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lhs.Union(tt.rhs))
		})
	}
}

func TestRequest_Union_DoesNotAliasOperands(t *testing.T) {
	lhs := IDs(1, 2)
	_ = lhs.Union(One(3))
	_ = lhs.Union(IDs(4))
	assert.Equal(t, []int{1, 2}, lhs.IDs)
}

// ── Difference ───────────────────────────────────────────────────────────────

func TestRequest_Difference(t *testing.T) {
	tests := []struct {
		name string
		lhs  Request[string]
		rhs  Request[string]
		want Request[string]
	}{
		{"ids minus ids", IDs("a", "b"), IDs("a"), IDs("b")},
		{"ids minus id is unchanged", IDs("a", "b", "c"), One("b"), IDs("a", "b", "c")},
		{"ids minus all", IDs("a", "b"), All[string](), IDs[string]()},
		{"id minus all", One("a"), All[string](), IDs[string]()},
		{"all minus all", All[string](), All[string](), IDs[string]()},
		{"all minus ids", All[string](), IDs("a"), All[string]()},
		{"id minus other id", One("a"), One("b"), One("a")},
		{"id minus same id is unchanged", One("a"), One("a"), One("a")},
		{"id minus ids is unchanged", One("a"), IDs("a", "b"), One("a")},
		{"id minus empty ids", One("a"), IDs[string](), One("a")},
		{"ids minus disjoint ids", IDs("a", "b"), IDs("c"), IDs("a", "b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lhs.Difference(tt.rhs))
		})
	}
}

// TestRequest_Difference_EmptyPromotesToAll pins the historical promotion of
// an emptied id selection to All. Callers that need "nothing left" must ask
// for EmptyDifferenceAsEmpty explicitly.
func TestRequest_Difference_EmptyPromotesToAll(t *testing.T) {
	got := IDs("a").Difference(IDs("a"))
	assert.True(t, got.IsAll(), "emptied id selection is promoted to All under the default policy")

	got = IDs("a").DifferenceWith(IDs("a"), EmptyDifferenceAsEmpty)
	assert.False(t, got.IsAll())
	assert.True(t, got.IsEmpty())

	// single-id shapes never reach the promotion
	assert.Equal(t, One("a"), One("a").Difference(IDs("a")))
	assert.Equal(t, One("a"), One("a").DifferenceWith(One("a"), EmptyDifferenceAsEmpty))
}

func TestRequest_DifferenceWith_ShrinksAfterPartialSuccess(t *testing.T) {
	pending := IDs(1, 2, 3, 4)
	pending = pending.DifferenceWith(IDs(1, 3), EmptyDifferenceAsEmpty)
	assert.Equal(t, IDs(2, 4), pending)

	pending = pending.DifferenceWith(IDs(2, 4), EmptyDifferenceAsEmpty)
	assert.True(t, pending.IsEmpty())
}

// ── Fingerprint ──────────────────────────────────────────────────────────────

func TestRequest_Fingerprint(t *testing.T) {
	assert.Equal(t, "*", All[int]().Fingerprint())
	assert.Equal(t, "[1,2,3]", IDs(3, 1, 2).Fingerprint())
	assert.Equal(t, IDs(1, 2).Fingerprint(), IDs(2, 1).Fingerprint())
	assert.Equal(t, One("x").Fingerprint(), IDs("x").Fingerprint())
	assert.Equal(t, "[]", IDs[int]().Fingerprint())
	assert.NotEqual(t, All[int]().Fingerprint(), IDs[int]().Fingerprint())
}

// ── helpers ──────────────────────────────────────────────────────────────────

func TestIDs_Dedupes(t *testing.T) {
	assert.Equal(t, []int{1, 2}, IDs(1, 2, 1, 2).IDs)
}

func TestRequest_Compact(t *testing.T) {
	assert.Equal(t, One(5), IDs(5).Compact())
	assert.Equal(t, IDs(5, 6), IDs(5, 6).Compact())
	assert.Equal(t, All[int](), All[int]().Compact())
}

func TestRequest_Contains(t *testing.T) {
	assert.True(t, All[int]().Contains(42))
	assert.True(t, IDs(1, 2).Contains(2))
	assert.False(t, One(1).Contains(2))
}

func TestRequest_Equal(t *testing.T) {
	assert.True(t, IDs(1, 2).Equal(IDs(2, 1)))
	assert.False(t, IDs(1).Equal(One(1)))
	assert.True(t, All[int]().Equal(All[int]()))
}

func TestRequest_Validate(t *testing.T) {
	require.NoError(t, All[int]().Validate())
	require.NoError(t, IDs(1, 2).Validate())
	require.NoError(t, One(1).Validate())

	err := Request[int]{Kind: KindID, IDs: []int{1, 2}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = Request[int]{Kind: "bogus"}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestRequest_JSON(t *testing.T) {
	data, err := json.Marshal(IDs("a", "b"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"ids","ids":["a","b"]}`, string(data))

	data, err = json.Marshal(All[string]())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"all"}`, string(data))

	var got Request[string]
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"id","ids":["z"]}`), &got))
	assert.Equal(t, One("z"), got)
}

func TestConnectStatus_String(t *testing.T) {
	assert.Equal(t, "connected", ConnectConnected.String())
	assert.Equal(t, "connecting", ConnectConnecting.String())
	assert.Equal(t, "disconnected", ConnectDisconnected.String())
	assert.Equal(t, "unsupported", ConnectUnsupported.String())
	assert.Equal(t, "unknown", ConnectStatus(99).String())
}
