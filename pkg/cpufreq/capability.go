package cpufreq

import (
	"fmt"
	"slices"

	"github.com/ja7ad/cpufreq/pkg/system/sysfs"
	"github.com/ja7ad/cpufreq/pkg/types"
)

// Capabilities is the driver description read once from cpu0 when a
// Manager is built. It is immutable and safe to share between goroutines
// and between Managers.
type Capabilities struct {
	driver      string
	governors   []string
	frequencies []types.Frequency // ascending
}

// NewCapabilities builds a snapshot from explicit values, e.g. to share a
// description across processes. Frequencies are sorted ascending.
func NewCapabilities(driver string, governors []string, frequencies []types.Frequency) (*Capabilities, error) {
	if driver == "" {
		return nil, fmt.Errorf("%w: empty driver name", ErrInitialization)
	}
	if len(governors) == 0 {
		return nil, fmt.Errorf("%w: no available governors", ErrInitialization)
	}
	if len(frequencies) == 0 {
		return nil, fmt.Errorf("%w: no available frequencies", ErrInitialization)
	}
	freqs := slices.Clone(frequencies)
	slices.Sort(freqs)
	return &Capabilities{
		driver:      driver,
		governors:   slices.Clone(governors),
		frequencies: slices.Compact(freqs),
	}, nil
}

// readCapabilities reads driver, governors and frequencies from cpu0, in
// that order. Any failure is an ErrInitialization carrying the cause.
func readCapabilities(fsys sysfs.FS) (*Capabilities, error) {
	driver, err := fsys.Read(freqAttr(0, attrDriver))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	governors, err := sysfs.Fields(fsys, freqAttr(0, attrGovernors))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	raw, err := fsys.Read(freqAttr(0, attrFrequencies))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	frequencies, err := types.ParseFrequencies(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInitialization, attrFrequencies, err)
	}
	return NewCapabilities(driver, governors, frequencies)
}

// Driver returns the scaling driver name, e.g. "acpi-cpufreq".
func (c *Capabilities) Driver() string { return c.driver }

// Governors returns the available governors in kernel order.
func (c *Capabilities) Governors() []string { return slices.Clone(c.governors) }

// Frequencies returns the available frequencies in ascending order.
func (c *Capabilities) Frequencies() []types.Frequency { return slices.Clone(c.frequencies) }

// MinFrequency is the lowest available frequency.
func (c *Capabilities) MinFrequency() types.Frequency { return c.frequencies[0] }

// MaxFrequency is the highest available frequency.
func (c *Capabilities) MaxFrequency() types.Frequency { return c.frequencies[len(c.frequencies)-1] }

// HasGovernor reports whether name is an available governor.
func (c *Capabilities) HasGovernor(name string) bool { return slices.Contains(c.governors, name) }

// ValidateGovernor fails with ErrUnsupportedValue if name is not available.
func (c *Capabilities) ValidateGovernor(name string) error {
	if !c.HasGovernor(name) {
		return fmt.Errorf("%w: governor %q not in %v", ErrUnsupportedValue, name, c.governors)
	}
	return nil
}

// ValidateFrequency fails with ErrUnsupportedValue if f is not one of the
// available frequencies.
func (c *Capabilities) ValidateFrequency(f types.Frequency) error {
	if _, ok := slices.BinarySearch(c.frequencies, f); !ok {
		return fmt.Errorf("%w: frequency %d not in %v", ErrUnsupportedValue, f, c.frequencies)
	}
	return nil
}
