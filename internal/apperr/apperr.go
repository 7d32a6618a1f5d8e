// Package apperr carries error values that cross package boundaries on their
// way to the API layer.
package apperr

import "fmt"

// Validation marks client-fixable input problems. The API layer maps it to a
// 400 with the message surfaced verbatim.
type Validation struct {
	Message string
}

func (e *Validation) Error() string { return e.Message }

func Validationf(format string, args ...any) error {
	return &Validation{Message: fmt.Sprintf(format, args...)}
}
