package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidID        = errors.New("invalid note id")
	ErrEmptyTitle       = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title is too long")
	ErrInvalidTag       = errors.New("invalid tag")
	ErrDuplicateTag     = errors.New("duplicate tag")
	ErrTooManyTags      = errors.New("too many tags")
	ErrMissingUpdatedAt = errors.New("updated_at is required")
	ErrEmptyNotes       = errors.New("notes list cannot be empty")
)
