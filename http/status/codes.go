package status

type (
	Code   uint16
	Status string
)

// HTTP status codes the server is able to respond with.
// See: https://www.iana.org/assignments/http-status-codes/http-status-codes.xhtml
const (
	OK      Code = 200 // RFC 9110, 15.3.1
	Created Code = 201 // RFC 9110, 15.3.2

	BadRequest            Code = 400 // RFC 9110, 15.5.1
	NotFound              Code = 404 // RFC 9110, 15.5.5
	RequestEntityTooLarge Code = 413 // RFC 9110, 15.5.14

	InternalServerError Code = 500 // RFC 9110, 15.6.1
	NotImplemented      Code = 501 // RFC 9110, 15.6.2
)

// KnownCodes lists every code having a reason phrase.
var KnownCodes = []Code{
	OK, Created, BadRequest, NotFound, RequestEntityTooLarge, InternalServerError, NotImplemented,
}

// Text returns a reason phrase for the HTTP status code. It returns the empty
// string if the code is unknown.
func Text(code Code) Status {
	switch code {
	case OK:
		return "OK"
	case Created:
		return "Created"
	case BadRequest:
		return "Bad Request"
	case NotFound:
		return "Not Found"
	case RequestEntityTooLarge:
		return "Request Entity Too Large"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	default:
		return ""
	}
}
