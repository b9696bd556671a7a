package login

import "errors"

// ErrInvalidFormData is returned when the submitted form cannot be parsed.
var ErrInvalidFormData = errors.New("invalid form data")
