package status

import "errors"

// HTTPError is an error carrying the status code it must be answered with.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

var (
	ErrMalformedRequest      = NewError(BadRequest, "malformed request")
	ErrUnsupportedMethod     = NewError(NotImplemented, "request method is not supported")
	ErrRequestEntityTooLarge = NewError(RequestEntityTooLarge, "request entity too large")
	ErrMissingStatus         = NewError(InternalServerError, "response status was never set")
)

// CodeOf returns the code the error must be answered with. Errors that aren't
// HTTPError are considered internal.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}
