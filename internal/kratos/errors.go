package kratos

import (
	"encoding/json"
	"errors"
	"fmt"
)

// StatusError is returned for every response whose status is not the one the
// operation expects. The body is kept so callers can branch on it.
type StatusError struct {
	Op         string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("kratos %s: unexpected status %d", e.Op, e.StatusCode)
}

// Payload returns the body as JSON. A non-JSON body is returned as a JSON
// string so it can still be forwarded verbatim.
func (e *StatusError) Payload() json.RawMessage {
	if len(e.Body) > 0 && json.Valid(e.Body) {
		return json.RawMessage(e.Body)
	}
	quoted, _ := json.Marshal(string(e.Body))
	return quoted
}

// ErrorDetail returns the "error" member of a generic error payload, falling
// back to the whole payload.
func (e *StatusError) ErrorDetail() json.RawMessage {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err == nil && len(envelope.Error) > 0 {
		return envelope.Error
	}
	return e.Payload()
}

// Flow decodes the body as a flow descriptor, which is how validation errors
// of a self-service submission are reported.
func (e *StatusError) Flow() (*Flow, bool) {
	var f Flow
	if err := json.Unmarshal(e.Body, &f); err != nil {
		return nil, false
	}
	return &f, true
}

// AsStatusError unwraps err into a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var errMissingAction = errors.New("flow has no action url")
