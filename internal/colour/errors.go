// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPalette is returned when no opaque pixel survives background removal.
	ErrEmptyPalette = errors.New("couldn't find any colours, all pixels are transparent")

	// ErrInsufficientColours is the sentinel wrapped by InsufficientColoursError.
	ErrInsufficientColours = errors.New("not enough distinct colours")

	// ErrNonConvergence is the sentinel wrapped by NonConvergenceError.
	ErrNonConvergence = errors.New("k-means did not converge")

	// ErrInvalidClusterCount is returned when fewer than one cluster is requested.
	ErrInvalidClusterCount = errors.New("cluster count must be at least 1")
)

// InsufficientColoursError reports a request for more clusters than there are
// distinct colours in the image.
type InsufficientColoursError struct {
	K     int
	Found int
}

func (e *InsufficientColoursError) Error() string {
	return fmt.Sprintf("k=%d while only %d colours were found in the image", e.K, e.Found)
}

func (e *InsufficientColoursError) Unwrap() error {
	return ErrInsufficientColours
}

// NonConvergenceError reports that buckets were still being reassigned on the
// last permitted iteration.
type NonConvergenceError struct {
	Iterations int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("k-means max iterations limit of %d reached", e.Iterations)
}

func (e *NonConvergenceError) Unwrap() error {
	return ErrNonConvergence
}
