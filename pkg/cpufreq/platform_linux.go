//go:build linux

package cpufreq

const platformSupported = true
