package engine

import (
	"errors"
	"fmt"

	"github.com/faulter/faulter/pkg/node"
)

// Error codes for programmatic handling. Every caller-facing failure is
// local to one solve or sweep invocation; none is retryable and none
// leaves shared state corrupted.
const (
	// ErrCodeUnknownNodeType marks a type tag missing from the registry.
	ErrCodeUnknownNodeType = "UNKNOWN_NODE_TYPE"

	// ErrCodeNotFound marks a referenced node id that does not exist.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeTypeMismatch marks a node id resolving to the wrong variant.
	ErrCodeTypeMismatch = "TYPE_MISMATCH"

	// ErrCodeEvaluation marks a formula expression that failed to
	// evaluate.
	ErrCodeEvaluation = "EVALUATION_ERROR"

	// ErrCodeInternal marks an engine bug.
	ErrCodeInternal = "INTERNAL_ERROR"
)

// EngineError is a classified error with node and operation context.
// nolint:revive // EngineError is intentionally named to distinguish from standard errors
type EngineError struct {
	// Code classifies the failure for programmatic handling.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// NodeID is the node that caused the failure, if applicable.
	NodeID string `json:"node_id,omitempty"`

	// Operation is the engine operation in flight (solve, sweep, order).
	Operation string `json:"operation,omitempty"`

	// Err is the underlying cause.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.NodeID != "" {
		msg += fmt.Sprintf(" (node=%s)", e.NodeID)
	}
	if e.Operation != "" {
		msg += fmt.Sprintf(" (operation=%s)", e.Operation)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is implements error equality for errors.Is: two EngineErrors match on
// their code.
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithNode adds node context to the error.
func (e *EngineError) WithNode(nodeID string) *EngineError {
	e.NodeID = nodeID
	return e
}

// WithOperation adds operation context to the error.
func (e *EngineError) WithOperation(operation string) *EngineError {
	e.Operation = operation
	return e
}

// NewNotFoundError reports a missing node id.
func NewNotFoundError(nodeID string) *EngineError {
	return &EngineError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("node %q not found", nodeID),
		NodeID:  nodeID,
	}
}

// NewTypeMismatchError reports a node resolving to the wrong variant.
func NewTypeMismatchError(nodeID, gotType, wantType string) *EngineError {
	return &EngineError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("node %q is of type %q, not %q", nodeID, gotType, wantType),
		NodeID:  nodeID,
	}
}

// classify wraps lower-layer errors into an EngineError with the right
// code. Node-layer errors carry their own types; anything unrecognized is
// internal.
func classify(err error) *EngineError {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee
	}

	var ute *node.UnknownTypeError
	if errors.As(err, &ute) {
		return &EngineError{
			Code:    ErrCodeUnknownNodeType,
			Message: "unresolvable node type",
			Err:     err,
		}
	}

	var eve *node.EvaluationError
	if errors.As(err, &eve) {
		return &EngineError{
			Code:    ErrCodeEvaluation,
			Message: "formula evaluation failed",
			NodeID:  eve.NodeID,
			Err:     err,
		}
	}

	return &EngineError{
		Code:    ErrCodeInternal,
		Message: "internal engine failure",
		Err:     err,
	}
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsTypeMismatch reports whether err carries the TYPE_MISMATCH code.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

// IsUnknownNodeType reports whether err carries the UNKNOWN_NODE_TYPE code.
func IsUnknownNodeType(err error) bool {
	return hasCode(err, ErrCodeUnknownNodeType)
}

// IsEvaluation reports whether err carries the EVALUATION_ERROR code.
func IsEvaluation(err error) bool {
	return hasCode(err, ErrCodeEvaluation)
}

func hasCode(err error, code string) bool {
	var e *EngineError
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
