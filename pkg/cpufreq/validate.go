package cpufreq

import (
	"fmt"

	"github.com/ja7ad/cpufreq/pkg/types"
)

// validateValue rejects frequencies no kernel attribute can hold. It keeps
// the programmatic setters in line with types.ParseFrequency.
func validateValue(f types.Frequency) error {
	if f < 0 {
		return fmt.Errorf("%w: negative frequency %d", ErrTypeMismatch, f)
	}
	return nil
}

// Interval checks run against the core's live boundaries, read just before
// each write.

func validateTarget(f, lo, hi types.Frequency) error {
	if f < lo || f > hi {
		return fmt.Errorf("%w: frequency %d outside [%d, %d]", ErrOutOfRange, f, lo, hi)
	}
	return nil
}

func validateMax(newMax, currentMin types.Frequency) error {
	if newMax < currentMin {
		return fmt.Errorf("%w: max %d below current min %d", ErrOutOfRange, newMax, currentMin)
	}
	return nil
}

func validateMin(newMin, currentMax types.Frequency) error {
	if newMin > currentMax {
		return fmt.Errorf("%w: min %d above current max %d", ErrOutOfRange, newMin, currentMax)
	}
	return nil
}
