package convert

import "fmt"

// UnavailableError indicates PDF conversion could not be completed, at any
// stage: missing credential, job creation, upload, polling timeout, a
// conversion error reported by the service, or download. Callers translate
// it into "serve the original document format instead"; it is never surfaced
// to the end user as a request failure.
type UnavailableError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conversion unavailable at %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("conversion unavailable at %s: %s", e.Stage, e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
