package types

import "fmt"

// CustomError is an API-boundary error carrying the HTTP status to emit and a
// machine-readable type tag for the response envelope.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}
