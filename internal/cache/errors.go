package cache

import "errors"

// ErrReferenceMismatch is returned by [Cache.Restore] when a snapshot was
// taken under another namespace.
var ErrReferenceMismatch = errors.New("snapshot reference mismatch")
