package sat

import "errors"

// ErrInvalidShape is returned when a shape has fewer than three vertices.
var ErrInvalidShape = errors.New("invalid shape: convex polygon needs at least 3 vertices")
