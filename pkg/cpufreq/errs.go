package cpufreq

import (
	"errors"
	"fmt"

	"github.com/ja7ad/cpufreq/pkg/types"
)

var (
	// ErrInitialization indicates that the platform lacks a usable cpufreq
	// driver (cpu0 exposes no driver, governor list or frequency list).
	// It is not retryable.
	ErrInitialization = errors.New("cpufreq: initialization failed")

	// ErrParse indicates malformed kernel range-list text. It points at a
	// kernel ABI mismatch rather than a transient condition.
	ErrParse = errors.New("cpufreq: malformed cpu list")

	// ErrIO indicates that a specific sysfs read or write failed. The
	// underlying *fs.PathError stays in the chain.
	ErrIO = errors.New("cpufreq: sysfs i/o failed")

	// ErrOutOfRange indicates that a value violates the current
	// min <= value <= max interval of a core. Values are never clamped.
	ErrOutOfRange = errors.New("cpufreq: value out of range")

	// ErrUnsupportedValue indicates a governor or frequency that the driver
	// does not offer.
	ErrUnsupportedValue = errors.New("cpufreq: unsupported value")

	// ErrTypeMismatch indicates a frequency argument that is not a
	// non-negative integer.
	ErrTypeMismatch = types.ErrTypeMismatch
)

// BatchError reports the first per-core failure of a multi-core operation.
// Cores before CPU (in ascending order) were already written; nothing is
// rolled back.
type BatchError struct {
	Op    string // e.g. "set governor"
	CPU   int    // core that failed
	Done  int    // cores handled before the failure
	Total int    // cores in the resolved set
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: cpu%d failed after %d/%d cores: %v", e.Op, e.CPU, e.Done, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func cpuIOError(cpu int, err error) error {
	return fmt.Errorf("%w: cpu%d: %w", ErrIO, cpu, err)
}
