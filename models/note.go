// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Note is the entity type the bundled client and server synchronize.
type Note struct {
	// ID is a client-generated UUID.
	ID string `json:"id"`

	// Title is a short human readable heading.
	Title string `json:"title"`

	// Body holds the note text.
	Body string `json:"body,omitempty"`

	// Tags are free-form labels.
	Tags []string `json:"tags,omitempty"`

	// UpdatedAt is stamped by the writer on every local change.
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements [Entity].
func (n Note) EntityID() string {
	return n.ID
}
