package errors

import stderrors "errors"

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Sentinel returns an error with the given text, like the standard errors.New.
// New is taken by the structured constructor in this package.
func Sentinel(text string) error { return stderrors.New(text) }
