// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks entities before they are cached or sent.
//
// A [Validator] accepts a value and an optional list of field names. With no
// fields every rule for the value's type runs; with fields only those rules
// run, in the given order, and the first failure is returned.
package validators

import "context"

// Validator validates arbitrary values, optionally restricted to named
// fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
