package config

import "errors"

// Configuration validation errors, returned by Config.Validate. Package-
// level sentinels so callers can react with errors.Is rather than parsing
// error text.
var (
	ErrInvalidImageBufferSize  = errors.New("config: image buffer size must be positive")
	ErrInvalidResultBufferSize = errors.New("config: result buffer size must be positive")
	ErrInvalidRequestsPerSecond = errors.New("config: requests per second must be positive")
	ErrConflictingSinkOptions  = errors.New("config: extensive csv and sqlite ledger options require the result sink to stay enabled")
)
