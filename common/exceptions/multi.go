package exceptions

import (
	"errors"
	"strings"
)

type MultiError interface {
	error
	Unwrap() []error
}

type multiError struct {
	errors []error
}

func (e *multiError) Error() string {
	messages := make([]string, 0, len(e.errors))
	for _, err := range e.errors {
		messages = append(messages, err.Error())
	}
	return "multi error: (" + strings.Join(messages, " | ") + ")"
}

func (e *multiError) Unwrap() []error {
	return e.errors
}

// Errors joins the non-nil errors. It returns nil when none remain and the
// error itself when only one does.
func Errors(errors ...error) error {
	var errs []error
	for _, err := range errors {
		if err != nil {
			errs = append(errs, err)
		}
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &multiError{errs}
}

// IsMulti reports whether err matches one of targetList. A multi error
// matches only when every inner error does.
func IsMulti(err error, targetList ...error) bool {
	if multiErr, isMulti := err.(MultiError); isMulti {
		for _, innerErr := range multiErr.Unwrap() {
			if !IsMulti(innerErr, targetList...) {
				return false
			}
		}
		return true
	}
	for _, target := range targetList {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
