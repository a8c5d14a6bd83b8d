package client

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the façade contract. Callers match them with
// errors.Is.
var (
	// ErrInvalidArguments reports a contradictory or insufficient
	// parameter combination, e.g. both or neither of agent id and name.
	ErrInvalidArguments = errors.New("client: invalid arguments")

	// ErrUnsupportedOverride reports a parameter that is valid for one
	// backend but rejected by the active one, e.g. an explicit embedding
	// or LLM config passed to the remote backend.
	ErrUnsupportedOverride = errors.New("client: unsupported override for this backend")

	// ErrNotImplemented reports an operation the active backend does not
	// expose. Unsupported operations always fail loudly, never no-op.
	ErrNotImplemented = errors.New("client: operation not implemented by this backend")
)

// RemoteError is a non-success status code from the remote backend. Body is
// the raw response body, preserved as diagnostic text.
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// IngestionError is a terminal job failure. Metadata carries the job's
// diagnostic payload verbatim.
type IngestionError struct {
	JobID    uuid.UUID
	Metadata map[string]any
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion job %s failed: %v", e.JobID, e.Metadata)
}
