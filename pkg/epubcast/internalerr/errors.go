package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrArchive       = errors.New("archive error")
)

// UploadMessage is the fixed user-facing text for a rejected upload.
const UploadMessage = "Please upload a valid EPUB file"

// InputValidationError reports an upload rejected before any parsing.
type InputValidationError struct {
	Name string
}

func (e *InputValidationError) Error() string {
	return UploadMessage
}

// Is lets errors.Is match ErrInvalidInput.
func (e *InputValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ArchiveError reports a failure opening the archive or decoding one of its
// entries. Entry is empty when the archive itself could not be opened.
type ArchiveError struct {
	Op    string
	Entry string
	Err   error
}

func (e *ArchiveError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entry, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrArchive.
func (e *ArchiveError) Is(target error) bool {
	return target == ErrArchive
}
