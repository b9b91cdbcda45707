package scene

import (
	"errors"
	"fmt"
)

var (
	ErrAssetUnreadable  = errors.New("scene: asset unreadable")
	ErrMalformedRecord  = errors.New("scene: malformed record")
	ErrCapacityExceeded = errors.New("scene: capacity exceeded")
	ErrEmptyMesh        = errors.New("scene: empty mesh")

	// Unsupported mesh syntax is reported as a malformed record so callers
	// only need to check for the four error kinds above.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrMalformedRecord)
)
