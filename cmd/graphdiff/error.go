package main

import (
	"errors"
)

type usageError struct {
	error
}

func newUsageError(msg string) usageError {
	return usageError{error: errors.New(msg)}
}

var errorWantedNoArgs = newUsageError("expected no (non-flag) arguments")
var errorWantedTwoArgs = newUsageError("please supply two documents to compare (use - for stdin)")
var errorStdinTwice = newUsageError("only one of the two documents can be read from stdin")
var errorInvalidOutputFormat = newUsageError("output format --output,-o must be 'text', 'table', 'json' or 'yaml'")

// errDifferences is returned, when asked for with --exit-code, if the
// documents differ. It isn't reported, only reflected in the exit
// status.
var errDifferences = errors.New("documents differ")
