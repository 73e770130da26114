package app

import "strings"

// MissingFieldsError reports a generation request with absent required
// fields. The message is shown to the user verbatim.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}
