package domain

import "errors"

// Common errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidPatch     = errors.New("invalid patch operation")
	ErrEmailExists      = errors.New("mail exists")
	ErrAuthFailed       = errors.New("auth failed")
	ErrImageRequired    = errors.New("product image is required")
	ErrUnsupportedImage = errors.New("unsupported product image")
)

// ImageRejectedError reports why a product image was not stored.
// Err is ErrImageRequired unless set otherwise.
type ImageRejectedError struct {
	Reason string
	Err    error
}

func (e *ImageRejectedError) Error() string {
	return "product image rejected: " + e.Reason
}

func (e *ImageRejectedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrImageRequired
}
