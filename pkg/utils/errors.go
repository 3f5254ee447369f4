package utils

// ValidationError is a client input problem. Field names the offending
// request field using its JSON name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
