package diff

import (
	"github.com/pkg/errors"
)

// ErrInvalidComparison is returned (wrapped) when asked to compare
// nothing with nothing, at the top or anywhere below it.
var ErrInvalidComparison = errors.New("at least one side must be non-null")

// IsInvalidComparison reports whether err was caused by comparing two
// absent values.
func IsInvalidComparison(err error) bool {
	return errors.Cause(err) == ErrInvalidComparison
}
