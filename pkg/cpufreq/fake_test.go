//go:build linux

package cpufreq

import (
	"io"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/utils/cpuset"
)

// fakeKernel is an in-memory cpu sysfs tree. Writes to cpuN/online update
// the top-level online and offline lists the way the kernel does, and the
// thread sibling lists only contain online cores.
type fakeKernel struct {
	t         *testing.T
	attrs     map[string]string
	present   cpuset.CPUSet
	topology  map[int]cpuset.CPUSet // full sibling set per core
	failWrite map[string]error
	writes    []string
}

const (
	fakeGovernors   = "conservative ondemand userspace powersave performance"
	fakeFrequencies = "2000000 1600000 1200000 800000"
)

// newFakeKernel builds ncpu present and online cores; cores i and
// i+ncpu/2 are hyperthread siblings. cpu0 has no online attribute.
func newFakeKernel(t *testing.T, ncpu int) *fakeKernel {
	t.Helper()
	k := &fakeKernel{
		t:         t,
		attrs:     map[string]string{},
		topology:  map[int]cpuset.CPUSet{},
		failWrite: map[string]error{},
	}
	ids := make([]int, ncpu)
	for i := range ids {
		ids[i] = i
	}
	k.present = cpuset.New(ids...)
	k.attrs["present"] = k.present.String()

	half := ncpu / 2
	for cpu := 0; cpu < ncpu; cpu++ {
		if half > 0 {
			k.topology[cpu] = cpuset.New(cpu%half, cpu%half+half)
		} else {
			k.topology[cpu] = cpuset.New(cpu)
		}
		if cpu != 0 {
			k.attrs[onlineAttr(cpu)] = "1"
		}
		k.attrs[freqAttr(cpu, attrDriver)] = "acpi-cpufreq"
		k.attrs[freqAttr(cpu, attrGovernors)] = fakeGovernors
		k.attrs[freqAttr(cpu, attrFrequencies)] = fakeFrequencies
		k.attrs[freqAttr(cpu, attrGovernor)] = "performance"
		k.attrs[freqAttr(cpu, attrCurFreq)] = "1600000"
		k.attrs[freqAttr(cpu, attrSetSpeed)] = "<unsupported>"
		k.attrs[freqAttr(cpu, attrMinFreq)] = "800000"
		k.attrs[freqAttr(cpu, attrMaxFreq)] = "2000000"
	}
	k.sync()
	return k
}

func (k *fakeKernel) online() cpuset.CPUSet {
	return k.present.Clone().Difference(k.offlined())
}

func (k *fakeKernel) offlined() cpuset.CPUSet {
	var off []int
	for _, cpu := range k.present.List() {
		if k.attrs[onlineAttr(cpu)] == "0" {
			off = append(off, cpu)
		}
	}
	return cpuset.New(off...)
}

func (k *fakeKernel) sync() {
	online := k.online()
	k.attrs["online"] = online.String()
	k.attrs["offline"] = k.offlined().String()
	for cpu, siblings := range k.topology {
		k.attrs[siblingsAttr(cpu)] = siblings.Intersection(online).String()
	}
}

func (k *fakeKernel) Read(name string) (string, error) {
	v, ok := k.attrs[name]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return strings.TrimSpace(v), nil
}

func (k *fakeKernel) Write(name, value string) error {
	if err, ok := k.failWrite[name]; ok {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	if _, ok := k.attrs[name]; !ok {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	k.attrs[name] = value
	k.writes = append(k.writes, name+"="+value)
	if strings.HasSuffix(name, "/online") {
		k.sync()
	}
	return nil
}

func (k *fakeKernel) set(name, value string) {
	k.attrs[name] = value
	k.sync()
}

// setOffline takes cpu offline behind the manager's back.
func (k *fakeKernel) setOffline(cpu int) {
	k.set(onlineAttr(cpu), "0")
}

func (k *fakeKernel) freq(cpu int, attr string) int {
	v, err := strconv.Atoi(k.attrs[freqAttr(cpu, attr)])
	require.NoError(k.t, err, "cpu%d %s", cpu, attr)
	return v
}

func (k *fakeKernel) resetWrites() { k.writes = nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, k *fakeKernel) *Manager {
	t.Helper()
	m, err := New(&Config{FS: k, Logger: quietLogger()})
	require.NoError(t, err)
	return m
}
