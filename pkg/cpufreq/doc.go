// Package cpufreq controls per-core CPU frequency scaling through the Linux
// cpufreq sysfs interface (/sys/devices/system/cpu).
//
// # Overview
//
//   - Manager: built once with New. Construction reads the capability
//     snapshot (scaling_driver, scaling_available_governors and
//     scaling_available_frequencies of cpu0) and fails with
//     ErrInitialization if any of them is missing or malformed.
//
//   - Targets: every operation takes a Target (AllCPUs, CPUs, CPUSet) that
//     is intersected with the live online or present list at call time.
//     An empty intersection is a no-op.
//
//   - Reads: Governors, Frequencies, MinFrequencies, MaxFrequencies and
//     CoreStates return one value per resolved online core, or an error
//     naming the core; never a partial map.
//
//   - Writes: SetGovernors, SetFrequencies, SetMinFrequencies and
//     SetMaxFrequencies validate per core, against the snapshot and against
//     the core's current [min, max], and then write. Enable, Disable,
//     EnableAll, DisableHyperthread and Reset toggle cores.
//
//   - Errors (errs.go):
//     ErrInitialization   : no usable driver; fatal
//     ErrParse            : malformed kernel cpu list
//     ErrIO               : a sysfs read or write failed
//     ErrOutOfRange       : value outside the core's [min, max]
//     ErrUnsupportedValue : governor/frequency not offered by the driver
//     ErrTypeMismatch     : frequency text is not an integer
//
//     Multi-core writes stop at the first failing core and return a
//     *BatchError recording how many cores were already written. Nothing is
//     rolled back; call Reset to return to a known state.
//
// # Units
//
// Frequencies are opaque kernel integers (types.Frequency). Most drivers
// report kHz but the package never converts them.
//
// # Platform notes
//
// Whether cpu0 can be taken offline is kernel dependent. The package does
// not special-case it; a refusal surfaces as ErrIO from the write.
package cpufreq
