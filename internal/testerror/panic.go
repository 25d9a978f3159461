package testerror

import "fmt"

// PanicError is a panic recovered from a test body, setup or cleanup step.
type PanicError struct {
	Value any
	Stack []byte
}

func NewPanicError(value any, stack []byte) PanicError {
	return PanicError{
		Value: value,
		Stack: stack,
	}
}

func (pe PanicError) Error() string {
	return fmt.Sprintf("panic occurred: %v", pe.Value)
}
