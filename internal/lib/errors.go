package lib

import "fmt"

type wrappedError struct {
	parent error
	child  error
}

// WrapError attaches a sentinel parent to the underlying error, both are matched by errors.Is
func WrapError(parent error, child error) error {
	return &wrappedError{parent: parent, child: child}
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.parent, e.child)
}

func (e *wrappedError) Unwrap() []error {
	return []error{e.parent, e.child}
}
