// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by snapshot stores. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrSnapshotNotFound is returned when no snapshot was ever saved under
	// the requested reference. A coordinator treats it as an empty cache.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrSnapshotCorrupted is returned when a persisted snapshot cannot be
	// decoded. The broken snapshot has already been deleted when this error
	// is returned.
	ErrSnapshotCorrupted = errors.New("snapshot corrupted")

	// ErrInvalidReference is returned for references that are empty or
	// would escape the cache directory.
	ErrInvalidReference = errors.New("invalid snapshot reference")

	// ErrUnknownDriver is returned by [NewSnapshotStore] for an unsupported
	// storage driver name.
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE
	// fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when reading result rows fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrBeginningTransaction is returned when a transaction cannot start.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when a commit fails.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
