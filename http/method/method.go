package method

import "github.com/indigo-web/utils/strcomp"

type Method uint8

const (
	Unknown Method = iota
	GET
	PUT
	POST
	DELETE
	PATCH
)

// List contains all the supported HTTP methods, sorted by their integer value. Unknown
// method is not included.
var List = []Method{GET, PUT, POST, DELETE, PATCH}

// Parse matches the token against supported methods case-insensitively. Unknown is
// returned if there's no match.
func Parse(str string) Method {
	switch len(str) {
	case 3:
		if strcomp.EqualFold(str, "GET") {
			return GET
		} else if strcomp.EqualFold(str, "PUT") {
			return PUT
		}
	case 4:
		if strcomp.EqualFold(str, "POST") {
			return POST
		}
	case 5:
		if strcomp.EqualFold(str, "PATCH") {
			return PATCH
		}
	case 6:
		if strcomp.EqualFold(str, "DELETE") {
			return DELETE
		}
	}

	return Unknown
}

func (m Method) String() string {
	switch m {
	case GET:
		return "GET"
	case PUT:
		return "PUT"
	case POST:
		return "POST"
	case DELETE:
		return "DELETE"
	case PATCH:
		return "PATCH"
	default:
		return "UNKNOWN"
	}
}
