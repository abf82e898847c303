package mrz

import "errors"

// Encoding errors. Field overflow is never an error; see Result.Truncated.
var (
	ErrInvalidRecord = errors.New("invalid identity record")
	ErrUnknownFormat = errors.New("unknown mrz format")
)
