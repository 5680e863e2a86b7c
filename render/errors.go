package render

import "errors"

// Precondition violations fail fast with these sentinels; callers check them
// with errors.Is. They signal misuse, not runtime conditions, and are never
// silently recovered.
var (
	ErrNilContext = errors.New("render: nil context")
	ErrNilNodes   = errors.New("render: nil node list")
)
