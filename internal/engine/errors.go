package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// SyncError reports a sync that could not run or could not finish.
//
// Sync errors include:
//   - Source address not found: the property to copy does not exist
//   - Target address not found: a property to overwrite does not exist
//   - Insufficient artifacts: fewer than two groups, or no truth file
//
// Writes made before the error are not rolled back; Report.Written lists
// them.
type SyncError struct {
	// Code identifies the error category.
	Code SyncErrorCode

	// Message is a human-readable description.
	Message string

	// Address is the unresolved address, for the address codes.
	Address string

	// File is the artifact involved, when there is one.
	File string

	// Err is the underlying cause.
	Err error
}

// SyncErrorCode categorizes sync errors.
type SyncErrorCode string

const (
	// ErrCodeSourceAddressNotFound indicates the source address does not resolve.
	ErrCodeSourceAddressNotFound SyncErrorCode = "SOURCE_ADDRESS_NOT_FOUND"

	// ErrCodeTargetAddressNotFound indicates a target address does not resolve.
	ErrCodeTargetAddressNotFound SyncErrorCode = "TARGET_ADDRESS_NOT_FOUND"

	// ErrCodeInsufficientArtifacts indicates a full sync without enough input.
	ErrCodeInsufficientArtifacts SyncErrorCode = "INSUFFICIENT_ARTIFACTS"
)

// Error implements the error interface.
func (e *SyncError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Address != "" {
		msg += fmt.Sprintf(" (address=%s", e.Address)
		if e.File != "" {
			msg += fmt.Sprintf(", file=%s", e.File)
		}
		msg += ")"
	} else if e.File != "" {
		msg += fmt.Sprintf(" (file=%s)", e.File)
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code SyncErrorCode) bool {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsSourceAddressNotFound returns true if err is a missing source address.
// Uses errors.As to handle wrapped errors.
func IsSourceAddressNotFound(err error) bool {
	return hasCode(err, ErrCodeSourceAddressNotFound)
}

// IsTargetAddressNotFound returns true if err is a missing target address.
func IsTargetAddressNotFound(err error) bool {
	return hasCode(err, ErrCodeTargetAddressNotFound)
}

// IsInsufficientArtifacts returns true if a full sync was refused.
func IsInsufficientArtifacts(err error) bool {
	return hasCode(err, ErrCodeInsufficientArtifacts)
}

// NewSourceAddressError creates a SyncError for an unresolved source.
func NewSourceAddressError(file, addr string, cause error) error {
	return errors.WithHint(&SyncError{
		Code:    ErrCodeSourceAddressNotFound,
		Message: "source address does not resolve",
		Address: addr,
		File:    file,
		Err:     cause,
	}, "run `doctrans addresses "+file+"` to list the addresses in the source")
}

// NewTargetAddressError creates a SyncError for an unresolved target.
func NewTargetAddressError(file, addr string, cause error) error {
	return errors.WithHint(&SyncError{
		Code:    ErrCodeTargetAddressNotFound,
		Message: "target address does not resolve",
		Address: addr,
		File:    file,
		Err:     cause,
	}, "run `doctrans addresses "+file+"` to list the addresses in the target")
}

// NewInsufficientArtifactsError creates a SyncError for a refused full sync.
func NewInsufficientArtifactsError(message, file string) error {
	return errors.WithHint(&SyncError{
		Code:    ErrCodeInsufficientArtifacts,
		Message: message,
		File:    file,
	}, "pass at least two of --argparse-function, --class and --function, and make --truth name one whose first file exists")
}
