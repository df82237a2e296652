package figure

import "fmt"

// ParameterError reports an out-of-range or structurally invalid option.
// It is returned before any I/O or decoding is attempted.
type ParameterError struct {
	Param  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Param, e.Reason)
}

// NewParameterError creates a ParameterError for the given option.
func NewParameterError(param, reason string) *ParameterError {
	return &ParameterError{Param: param, Reason: reason}
}

// DocumentError reports that source bytes could not be parsed as a document.
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("cannot parse document %q: %v", e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ImageFormatError reports that uploaded bytes could not be decoded as an
// image in any supported format.
type ImageFormatError struct {
	Name string
	Err  error
}

func (e *ImageFormatError) Error() string {
	return fmt.Sprintf("unsupported image format for %q: %v", e.Name, e.Err)
}

func (e *ImageFormatError) Unwrap() error { return e.Err }
