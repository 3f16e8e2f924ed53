package peers

import "fmt"

// NotFoundError reports that a referenced entity does not exist in the
// owning peer service (or, for referees, exists without the required role).
type NotFoundError struct {
	Entity string // "game" or "Official"
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found with ID %s", e.Entity, e.ID)
}

// CommError reports that a peer service was unreachable, timed out, or
// returned a malformed response. One canonical message per peer; every code
// path that hits a communication fault surfaces this same error.
type CommError struct {
	Peer string
	Err  error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("error communicating with the %s", e.Peer)
}

func (e *CommError) Unwrap() error { return e.Err }
