package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGraphValidation        = errors.New("invalid quiz graph")
	ErrInvalidOptionIndex     = errors.New("invalid option index")
	ErrSessionAlreadyTerminal = errors.New("session already terminal")
	ErrSessionStateMismatch   = errors.New("session state does not match graph")
)

// ValidationReason classifies why a graph was rejected at load time.
type ValidationReason string

const (
	ReasonInvalidSource     ValidationReason = "invalid_source"
	ReasonMissingRoot       ValidationReason = "missing_root"
	ReasonDanglingReference ValidationReason = "dangling_reference"
	ReasonEmptyOptions      ValidationReason = "empty_options"
	ReasonAmbiguousOutcome  ValidationReason = "ambiguous_outcome"
	ReasonInvalidWeight     ValidationReason = "invalid_weight"
	ReasonCycle             ValidationReason = "cycle"
)

// GraphValidationError is returned by LoadGraph and ParseSource. It matches
// ErrGraphValidation with errors.Is.
type GraphValidationError struct {
	Reason      ValidationReason
	NodeID      string
	OptionIndex int // -1 when the failure is not tied to an option
	Ref         string
	Cycle       []string
	Err         error
}

func (e *GraphValidationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrGraphValidation.Error())
	b.WriteString(": ")
	b.WriteString(string(e.Reason))
	if e.NodeID != "" {
		fmt.Fprintf(&b, " at node %q", e.NodeID)
	}
	if e.OptionIndex >= 0 {
		fmt.Fprintf(&b, " option %d", e.OptionIndex)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " (ref %q)", e.Ref)
	}
	if len(e.Cycle) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Cycle, " -> "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *GraphValidationError) Is(target error) bool { return target == ErrGraphValidation }

func (e *GraphValidationError) Unwrap() error { return e.Err }

func validationErr(reason ValidationReason, nodeID string, option int) *GraphValidationError {
	return &GraphValidationError{Reason: reason, NodeID: nodeID, OptionIndex: option}
}

// InvalidOptionIndexError reports an answer index outside the current node's
// option list. It matches ErrInvalidOptionIndex with errors.Is.
type InvalidOptionIndexError struct {
	NodeID string
	Index  int
	Count  int
}

func (e *InvalidOptionIndexError) Error() string {
	return fmt.Sprintf("%s: %d not in [0,%d) for node %q", ErrInvalidOptionIndex, e.Index, e.Count, e.NodeID)
}

func (e *InvalidOptionIndexError) Is(target error) bool { return target == ErrInvalidOptionIndex }
