package service

import "fmt"

// MalformedResponseError indicates a collaborator replied with 200 OK but
// the body is missing a field the contract requires. It is surfaced to the
// user through the same synthetic-turn path as a network failure, never
// swallowed.
type MalformedResponseError struct {
	Service string
	Field   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned a malformed response: missing %s", e.Service, e.Field)
}
