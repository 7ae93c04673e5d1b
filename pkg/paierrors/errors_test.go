package paierrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrappedSentinelsUnwrapCorrectly(t *testing.T) {
	wrapped := fmt.Errorf("%w: /tmp/nope", ErrMissingFile)
	assert.True(t, errors.Is(wrapped, ErrMissingFile))
	assert.False(t, errors.Is(wrapped, ErrEmptyFile))
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrMissingFile, ErrEmptyFile, ErrUnknownElement, ErrTruncatedRecord,
		ErrMalformedHeader, ErrOutOfRange, ErrInvalidSpecies, ErrMalformedReport,
		ErrWorkerReportedError, ErrNonFiniteEnergy, ErrMissingOutbox, ErrInvalidConfig,
	}
	for i, a := range all {
		for j, b := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "sentinels %d and %d must be distinct", i, j)
		}
	}
}
