package interfaces

import "context"

// IdentityProvider returns the cached supervisor identity, if one exists.
// Callers treat a missing identity as "do not filter".
type IdentityProvider interface {
	SupervisorID(ctx context.Context) (string, bool)
}
