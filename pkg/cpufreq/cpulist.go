package cpufreq

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/utils/cpuset"
)

// MaxCPUs bounds the core ids ParseCPUList accepts. It matches the largest
// NR_CPUS a Linux kernel can be built with.
const MaxCPUs = 8192

// ParseCPUList parses a kernel CPU list ("0-3,5,7-8") as found in online,
// offline, present and thread_siblings_list. Empty or blank input is the
// empty set. A range must satisfy lo <= hi and every id must be below
// MaxCPUs.
func ParseCPUList(text string) (cpuset.CPUSet, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return cpuset.New(), nil
	}

	parts := make([]cpuset.CPUSet, 0, strings.Count(text, ",")+1)
	for _, token := range strings.Split(text, ",") {
		token = normalizeToken(token)
		if token == "" || strings.Trim(token, "0123456789-") != "" {
			return cpuset.New(), fmt.Errorf("%w: bad token %q", ErrParse, token)
		}
		if err := checkBounds(token); err != nil {
			return cpuset.New(), fmt.Errorf("%w: bad token %q: %w", ErrParse, token, err)
		}
		set, err := cpuset.Parse(token)
		if err != nil {
			return cpuset.New(), fmt.Errorf("%w: bad token %q: %w", ErrParse, token, err)
		}
		parts = append(parts, set)
	}
	return cpuset.New().Union(parts...), nil
}

// normalizeToken trims a token and the bounds of a lo-hi range.
func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	lo, hi, ok := strings.Cut(token, "-")
	if !ok {
		return token
	}
	return strings.TrimSpace(lo) + "-" + strings.TrimSpace(hi)
}

// checkBounds rejects ids at or above MaxCPUs before cpuset.Parse expands
// the range. Malformed bounds are left to cpuset.Parse.
func checkBounds(token string) error {
	lo, hi, _ := strings.Cut(token, "-")
	for _, b := range []string{lo, hi} {
		if b == "" {
			continue
		}
		id, err := strconv.Atoi(b)
		if err != nil {
			return err
		}
		if id >= MaxCPUs {
			return fmt.Errorf("cpu id %d exceeds limit %d", id, MaxCPUs-1)
		}
	}
	return nil
}

// FormatCPUList renders s in kernel range-list form.
func FormatCPUList(s cpuset.CPUSet) string { return s.String() }
