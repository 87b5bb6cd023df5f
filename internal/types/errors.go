package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrTypeMismatch     = errors.New("type mismatch")

	ErrInvalidSource = errors.New("invalid configuration source")
)

func Err(typedError error, innerErr error, msgTemplate string, args ...any) error {
	if msgTemplate == "" {
		return errors.Join(typedError, innerErr)
	} else {
		return errors.Join(typedError, innerErr, fmt.Errorf(msgTemplate, args...))
	}
}

// UnknownParameterError is returned when a name outside the allow-list is set, fetched or deleted.
// Allowed lists every valid name so the caller can correct the input.
type UnknownParameterError struct {
	Name    string
	Allowed []string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("requested parameter '%s' not found in allowed list [%s]", e.Name, strings.Join(e.Allowed, ","))
}

func (e *UnknownParameterError) Is(target error) bool { return target == ErrUnknownParameter }

// TypeMismatchError is returned by the setters when the value type disagrees with the allow-list.
type TypeMismatchError struct {
	Name string
	Got  string
	Want string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("parameter '%s' has wrong type '%s' but should be '%s'", e.Name, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

func unknownParameter(name string) error {
	return &UnknownParameterError{Name: name, Allowed: AllowedNames()}
}
