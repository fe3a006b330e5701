package schemes

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func notFound() *Error {
	return &Error{Status: 404, Code: "SCHEME_NOT_FOUND", Message: "scheme not found"}
}

func invalid(msg, field, reason string) *Error {
	return &Error{Status: 422, Code: "VALIDATION_ERROR", Message: msg, Details: map[string]any{field: reason}}
}
