// Package errutil provides helpers for working with nested error chains.
//
// Action execution wraps low level failures (I2C, services, lookups) in
// higher level errors.  When reporting a hardware fault the caller needs the
// whole chain, innermost cause first, so it can be stored as ordered
// additional data in an error log entry.
package errutil

import "errors"

// Flatten returns the chain of nested errors within err, innermost first.
// A nil err yields an empty slice.
func Flatten(err error) []error {
	var chain []error
	for err != nil {
		chain = append([]error{err}, chain...)
		err = errors.Unwrap(err)
	}
	return chain
}

// Messages returns the error messages of the nested chain within err,
// innermost first.
func Messages(err error) []string {
	chain := Flatten(err)
	messages := make([]string, 0, len(chain))
	for _, e := range chain {
		messages = append(messages, e.Error())
	}
	return messages
}
