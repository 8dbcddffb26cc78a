package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors:
//   - ErrNotFound: entity does not exist in store
//   - ErrConflict: write collided with an existing row
//   - ErrUnavailable: backing service temporarily unavailable
//   - ErrLockTimeout: a per-user lock could not be acquired in time
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrLockTimeout = errors.New("lock wait timed out")
)
