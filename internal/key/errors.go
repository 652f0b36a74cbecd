package key

import (
	"errors"
	"fmt"
)

// TreeError reports a dataset that violates the tree invariants.
//
// Tree errors are hard failures of Build: no partial tree is returned.
type TreeError struct {
	// Code identifies the violated invariant.
	Code TreeErrorCode

	// Message is a human-readable description.
	Message string

	// LeadID is the offending lead, when one can be named.
	LeadID int

	// ParentID is the unresolved or conflicting parent reference.
	ParentID int
}

// TreeErrorCode categorizes malformed datasets.
type TreeErrorCode string

const (
	// ErrCodeMissingParent indicates a parent id that matches no lead.
	ErrCodeMissingParent TreeErrorCode = "MISSING_PARENT"

	// ErrCodeAmbiguousRoot indicates more than one lead declares itself root.
	ErrCodeAmbiguousRoot TreeErrorCode = "AMBIGUOUS_ROOT"

	// ErrCodeMissingRoot indicates no lead declares itself root.
	ErrCodeMissingRoot TreeErrorCode = "MISSING_ROOT"

	// ErrCodeDuplicateLead indicates a lead id used by more than one record.
	ErrCodeDuplicateLead TreeErrorCode = "DUPLICATE_LEAD"

	// ErrCodeInvalidLead indicates a non-positive lead id.
	ErrCodeInvalidLead TreeErrorCode = "INVALID_LEAD"

	// ErrCodeCycle indicates leads that are not reachable from the root.
	ErrCodeCycle TreeErrorCode = "CYCLE"
)

// Error implements the error interface.
func (e *TreeError) Error() string {
	if e.LeadID != 0 && e.ParentID != 0 {
		return fmt.Sprintf("%s: %s (lead=%d, parent=%d)", e.Code, e.Message, e.LeadID, e.ParentID)
	}
	if e.LeadID != 0 {
		return fmt.Sprintf("%s: %s (lead=%d)", e.Code, e.Message, e.LeadID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformedTree returns true if err is, or wraps, a TreeError.
func IsMalformedTree(err error) bool {
	var te *TreeError
	return errors.As(err, &te)
}

// HasTreeCode returns true if err wraps a TreeError with the given code.
func HasTreeCode(err error, code TreeErrorCode) bool {
	var te *TreeError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func newMissingParentError(leadID, parentID int) *TreeError {
	return &TreeError{
		Code:     ErrCodeMissingParent,
		Message:  "parent lead not found in dataset",
		LeadID:   leadID,
		ParentID: parentID,
	}
}

func newAmbiguousRootError(leadID, rootID int) *TreeError {
	return &TreeError{
		Code:     ErrCodeAmbiguousRoot,
		Message:  fmt.Sprintf("lead declares itself root but lead %d already is", rootID),
		LeadID:   leadID,
		ParentID: rootID,
	}
}

func newMissingRootError() *TreeError {
	return &TreeError{
		Code:    ErrCodeMissingRoot,
		Message: "no lead declares itself root",
	}
}

func newDuplicateLeadError(leadID int) *TreeError {
	return &TreeError{
		Code:    ErrCodeDuplicateLead,
		Message: "lead id appears more than once",
		LeadID:  leadID,
	}
}

func newInvalidLeadError(leadID int) *TreeError {
	return &TreeError{
		Code:    ErrCodeInvalidLead,
		Message: fmt.Sprintf("lead id must be positive, got %d", leadID),
	}
}

func newCycleError(unreachable int) *TreeError {
	return &TreeError{
		Code:    ErrCodeCycle,
		Message: fmt.Sprintf("%d leads are not reachable from the root", unreachable),
	}
}
