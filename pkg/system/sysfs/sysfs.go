package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBase is where the kernel exports CPU devices.
const DefaultBase = "/sys/devices/system/cpu"

// FS reads and writes single attribute files addressed relative to a base
// directory, e.g. "cpu0/cpufreq/scaling_governor" or "online".
type FS interface {
	Read(name string) (string, error)
	Write(name, value string) error
}

// Dir is an FS rooted at a directory on the real filesystem.
//
// The zero value reads from DefaultBase.
type Dir struct {
	Base string
}

// New returns a Dir rooted at base, or at DefaultBase when base is empty.
func New(base string) Dir {
	if base == "" {
		base = DefaultBase
	}
	return Dir{Base: base}
}

// Path returns the absolute path of the named attribute.
func (d Dir) Path(name string) string {
	base := d.Base
	if base == "" {
		base = DefaultBase
	}
	return filepath.Join(base, filepath.FromSlash(name))
}

// Read returns the attribute content with the trailing newline and any
// surrounding whitespace removed. The underlying *fs.PathError is kept in
// the chain so callers can test for fs.ErrNotExist or fs.ErrPermission.
func (d Dir) Read(name string) (string, error) {
	b, err := os.ReadFile(d.Path(name))
	if err != nil {
		return "", fmt.Errorf("sysfs: read %s: %w", name, err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Write stores value in the attribute with a single write. Attributes are
// never created: a missing file is reported as an error.
func (d Dir) Write(name, value string) error {
	f, err := os.OpenFile(d.Path(name), os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("sysfs: write %s: %w", name, err)
	}
	if _, err := f.WriteString(value); err != nil {
		_ = f.Close()
		return fmt.Errorf("sysfs: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("sysfs: write %s: %w", name, err)
	}
	return nil
}

// Fields reads a whitespace-separated attribute such as
// scaling_available_governors.
func Fields(fsys FS, name string) ([]string, error) {
	v, err := fsys.Read(name)
	if err != nil {
		return nil, err
	}
	return strings.Fields(v), nil
}
