package quota

import "errors"

// ErrUnknownOperation indicates an operation class the gate does not know.
var ErrUnknownOperation = errors.New("unknown quota operation")

// DeniedError carries a policy denial across service boundaries for callers
// that work in terms of errors rather than Decision values.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return string(e.Reason)
}

// Denied wraps a denial reason into a DeniedError.
func Denied(reason Reason) *DeniedError {
	return &DeniedError{Reason: reason}
}

// IsDenied reports whether err is a policy denial and returns its reason.
func IsDenied(err error) (Reason, bool) {
	var de *DeniedError
	if errors.As(err, &de) {
		return de.Reason, true
	}
	return "", false
}
