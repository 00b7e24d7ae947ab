package service

import "errors"

var (
	// Sync phase failures. [Coordinator.Sync] wraps the delegate error with
	// the sentinel of the phase that failed and joins all of them.
	ErrPushFailed = errors.New("push failed")
	ErrPopFailed  = errors.New("pop failed")
	ErrPullFailed = errors.New("pull failed")

	ErrSyncInProgress = errors.New("sync already in progress")
	ErrIDChanged      = errors.New("mutation changed entity id")

	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrUnknownSession          = errors.New("unknown realtime session")
)
