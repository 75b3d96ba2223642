//go:build linux

package util

import (
	"runtime"
	"strconv"

	"golang.org/x/sys/unix"
)

// SystemSummary returns hostname, kernel release and logical CPU count for
// the CLI banner. Fields that cannot be determined are "unknown".
func SystemSummary() (host, kernel, cpus string) {
	host, kernel = "unknown", "unknown"
	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		host = cstr(uts.Nodename[:])
		kernel = cstr(uts.Release[:])
	}
	return host, kernel, strconv.Itoa(runtime.NumCPU())
}

// Writable reports whether the calling process may write path, following
// the kernel's own permission check.
func Writable(path string) bool {
	return unix.Access(path, unix.W_OK) == nil
}

func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
