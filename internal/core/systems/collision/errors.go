package collision

import "errors"

// Collision system errors
var (
	ErrBodyExists           = errors.New("body already registered")
	ErrBodyNotFound         = errors.New("body not found")
	ErrSystemNotInitialized = errors.New("collision system is not initialized")
	ErrSystemShutdown       = errors.New("collision system is shut down")
)
