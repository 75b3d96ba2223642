package cpufreq

import (
	"fmt"
	"log/slog"

	"k8s.io/utils/cpuset"

	"github.com/ja7ad/cpufreq/pkg/system/sysfs"
	"github.com/ja7ad/cpufreq/pkg/types"
)

// preferredResetGovernors are tried in order when Config.ResetGovernor is
// empty.
var preferredResetGovernors = []string{"ondemand", "schedutil", "powersave"}

// Config controls how a Manager reaches sysfs and how Reset behaves.
type Config struct {
	// BaseDir is the cpu sysfs directory. Ignored when FS is set.
	BaseDir string
	// FS overrides the attribute I/O, e.g. for tests.
	FS sysfs.FS
	// ResetGovernor is the governor Reset applies. Empty picks the first of
	// ondemand, schedutil, powersave offered by the driver, else the first
	// available governor.
	ResetGovernor string
	// RequireAvailableFrequency makes SetFrequencies reject values that are
	// not listed in scaling_available_frequencies.
	RequireAvailableFrequency bool
	// Logger receives per-write debug records. Defaults to slog.Default().
	Logger *slog.Logger
}

func _defaultConfig() *Config {
	return &Config{
		BaseDir: sysfs.DefaultBase,
		Logger:  slog.Default(),
	}
}

// CoreState is a live view of one core's frequency settings.
type CoreState struct {
	Governor string          `yaml:"governor"`
	Min      types.Frequency `yaml:"min"`
	Max      types.Frequency `yaml:"max"`
	Current  types.Frequency `yaml:"current"`
}

// Manager is the entry point for reading and changing cpufreq state.
//
// Build one Manager per machine in top-level code and share it. Apart from
// the capability snapshot nothing is cached: every call re-reads sysfs and
// re-resolves its target set immediately before acting. Per-core writes are
// sequential, in ascending core order. A Manager holds no mutable state;
// ordering between concurrent mutations is up to the caller.
type Manager struct {
	fs            sysfs.FS
	caps          *Capabilities
	resetGovernor string
	strictFreq    bool
	log           *slog.Logger
}

// New reads the driver capabilities from cpu0 and returns a Manager. It
// fails with ErrInitialization when the host has no usable cpufreq driver.
func New(cfg *Config) (*Manager, error) {
	return newManager(cfg, nil)
}

// NewWithCapabilities returns a Manager that reuses an existing snapshot
// instead of reading it again.
func NewWithCapabilities(cfg *Config, caps *Capabilities) (*Manager, error) {
	if caps == nil {
		return nil, fmt.Errorf("%w: nil capabilities", ErrInitialization)
	}
	return newManager(cfg, caps)
}

func newManager(cfg *Config, caps *Capabilities) (*Manager, error) {
	if !platformSupported {
		return nil, fmt.Errorf("%w: cpufreq is only available on Linux", ErrInitialization)
	}

	merged := *_defaultConfig()
	if cfg != nil {
		if cfg.BaseDir != "" {
			merged.BaseDir = cfg.BaseDir
		}
		if cfg.Logger != nil {
			merged.Logger = cfg.Logger
		}
		merged.FS = cfg.FS
		merged.ResetGovernor = cfg.ResetGovernor
		merged.RequireAvailableFrequency = cfg.RequireAvailableFrequency
	}
	if merged.FS == nil {
		merged.FS = sysfs.New(merged.BaseDir)
	}

	if caps == nil {
		var err error
		if caps, err = readCapabilities(merged.FS); err != nil {
			return nil, err
		}
	}

	gov, err := pickResetGovernor(caps, merged.ResetGovernor)
	if err != nil {
		return nil, fmt.Errorf("%w: reset governor: %w", ErrInitialization, err)
	}

	m := &Manager{
		fs:            merged.FS,
		caps:          caps,
		resetGovernor: gov,
		strictFreq:    merged.RequireAvailableFrequency,
		log:           merged.Logger,
	}
	m.log.Debug("cpufreq manager ready",
		"driver", caps.Driver(),
		"governors", caps.Governors(),
		"min", caps.MinFrequency(),
		"max", caps.MaxFrequency(),
		"reset_governor", gov,
	)
	return m, nil
}

func pickResetGovernor(caps *Capabilities, configured string) (string, error) {
	if configured != "" {
		if err := caps.ValidateGovernor(configured); err != nil {
			return "", err
		}
		return configured, nil
	}
	for _, g := range preferredResetGovernors {
		if caps.HasGovernor(g) {
			return g, nil
		}
	}
	return caps.governors[0], nil
}

// Capabilities returns the snapshot taken at construction.
func (m *Manager) Capabilities() *Capabilities { return m.caps }

// Driver returns the active scaling driver.
func (m *Manager) Driver() string { return m.caps.Driver() }

// AvailableGovernors returns the governors offered by the driver.
func (m *Manager) AvailableGovernors() []string { return m.caps.Governors() }

// AvailableFrequencies returns the frequencies offered by the driver,
// ascending.
func (m *Manager) AvailableFrequencies() []types.Frequency { return m.caps.Frequencies() }

// ResetGovernor returns the governor Reset applies.
func (m *Manager) ResetGovernor() string { return m.resetGovernor }

// CPUs parses the kernel's list for u.
func (m *Manager) CPUs(u Universe) (cpuset.CPUSet, error) {
	raw, err := m.fs.Read(string(u))
	if err != nil {
		return cpuset.New(), ioError(err)
	}
	set, err := ParseCPUList(raw)
	if err != nil {
		return cpuset.New(), fmt.Errorf("%s: %w", u, err)
	}
	return set, nil
}

// OnlineCPUs returns the cores currently online.
func (m *Manager) OnlineCPUs() (cpuset.CPUSet, error) { return m.CPUs(Online) }

// OfflineCPUs returns the possible cores currently offline.
func (m *Manager) OfflineCPUs() (cpuset.CPUSet, error) { return m.CPUs(Offline) }

// PresentCPUs returns the cores physically present.
func (m *Manager) PresentCPUs() (cpuset.CPUSet, error) { return m.CPUs(Present) }

// Resolve returns the cores of u selected by t, read from sysfs now.
func (m *Manager) Resolve(t Target, u Universe) (cpuset.CPUSet, error) {
	universe, err := m.CPUs(u)
	if err != nil {
		return cpuset.New(), err
	}
	return resolve(t, universe), nil
}

func (m *Manager) read(cpu int, name string) (string, error) {
	v, err := m.fs.Read(name)
	if err != nil {
		return "", cpuIOError(cpu, err)
	}
	return v, nil
}

func (m *Manager) readFreq(cpu int, attr string) (types.Frequency, error) {
	v, err := m.read(cpu, freqAttr(cpu, attr))
	if err != nil {
		return 0, err
	}
	f, err := types.ParseFrequency(v)
	if err != nil {
		return 0, cpuIOError(cpu, fmt.Errorf("%s: %w", attr, err))
	}
	return f, nil
}

func (m *Manager) write(cpu int, name, value string) error {
	m.log.Debug("sysfs write", "cpu", cpu, "attr", name, "value", value)
	if err := m.fs.Write(name, value); err != nil {
		return cpuIOError(cpu, err)
	}
	return nil
}

// readEach reads one value per resolved online core. Any failure fails the
// whole call; no partial map is returned.
func readEach[T any](m *Manager, t Target, read func(cpu int) (T, error)) (map[int]T, error) {
	cpus, err := m.Resolve(t, Online)
	if err != nil {
		return nil, err
	}
	out := make(map[int]T, cpus.Size())
	for _, cpu := range cpus.List() {
		v, err := read(cpu)
		if err != nil {
			return nil, err
		}
		out[cpu] = v
	}
	return out, nil
}

// forEach applies fn to cpus in ascending order and stops at the first
// failure.
func forEach(op string, cpus cpuset.CPUSet, fn func(cpu int) error) error {
	list := cpus.List()
	for i, cpu := range list {
		if err := fn(cpu); err != nil {
			return &BatchError{Op: op, CPU: cpu, Done: i, Total: len(list), Err: err}
		}
	}
	return nil
}

// Governors returns the scaling governor of each targeted online core.
func (m *Manager) Governors(t Target) (map[int]string, error) {
	return readEach(m, t, func(cpu int) (string, error) {
		return m.read(cpu, freqAttr(cpu, attrGovernor))
	})
}

// Frequencies returns scaling_cur_freq of each targeted online core.
func (m *Manager) Frequencies(t Target) (map[int]types.Frequency, error) {
	return readEach(m, t, func(cpu int) (types.Frequency, error) {
		return m.readFreq(cpu, attrCurFreq)
	})
}

// MinFrequencies returns scaling_min_freq of each targeted online core.
func (m *Manager) MinFrequencies(t Target) (map[int]types.Frequency, error) {
	return readEach(m, t, func(cpu int) (types.Frequency, error) {
		return m.readFreq(cpu, attrMinFreq)
	})
}

// MaxFrequencies returns scaling_max_freq of each targeted online core.
func (m *Manager) MaxFrequencies(t Target) (map[int]types.Frequency, error) {
	return readEach(m, t, func(cpu int) (types.Frequency, error) {
		return m.readFreq(cpu, attrMaxFreq)
	})
}

// CoreStates returns governor and boundaries of each targeted online core.
func (m *Manager) CoreStates(t Target) (map[int]CoreState, error) {
	return readEach(m, t, func(cpu int) (CoreState, error) {
		var (
			s   CoreState
			err error
		)
		if s.Governor, err = m.read(cpu, freqAttr(cpu, attrGovernor)); err != nil {
			return s, err
		}
		if s.Min, err = m.readFreq(cpu, attrMinFreq); err != nil {
			return s, err
		}
		if s.Max, err = m.readFreq(cpu, attrMaxFreq); err != nil {
			return s, err
		}
		s.Current, err = m.readFreq(cpu, attrCurFreq)
		return s, err
	})
}

// SetGovernors writes name to every targeted online core. The governor is
// checked against the snapshot before any core is touched.
func (m *Manager) SetGovernors(name string, t Target) error {
	if err := m.caps.ValidateGovernor(name); err != nil {
		return err
	}
	cpus, err := m.Resolve(t, Online)
	if err != nil {
		return err
	}
	return forEach("set governor", cpus, func(cpu int) error {
		return m.write(cpu, freqAttr(cpu, attrGovernor), name)
	})
}

// SetFrequencies writes f to scaling_setspeed of every targeted online core.
// Each core's min and max are read right before its write and f must lie
// within them. The kernel only honours scaling_setspeed under the
// userspace governor.
func (m *Manager) SetFrequencies(f types.Frequency, t Target) error {
	if err := validateValue(f); err != nil {
		return err
	}
	if m.strictFreq {
		if err := m.caps.ValidateFrequency(f); err != nil {
			return err
		}
	}
	cpus, err := m.Resolve(t, Online)
	if err != nil {
		return err
	}
	return forEach("set frequency", cpus, func(cpu int) error {
		lo, err := m.readFreq(cpu, attrMinFreq)
		if err != nil {
			return err
		}
		hi, err := m.readFreq(cpu, attrMaxFreq)
		if err != nil {
			return err
		}
		if err := validateTarget(f, lo, hi); err != nil {
			return err
		}
		return m.write(cpu, freqAttr(cpu, attrSetSpeed), f.String())
	})
}

// SetMaxFrequencies writes f to scaling_max_freq of every targeted online
// core. f must not be below the core's current min.
func (m *Manager) SetMaxFrequencies(f types.Frequency, t Target) error {
	if err := validateValue(f); err != nil {
		return err
	}
	cpus, err := m.Resolve(t, Online)
	if err != nil {
		return err
	}
	return forEach("set max frequency", cpus, func(cpu int) error {
		lo, err := m.readFreq(cpu, attrMinFreq)
		if err != nil {
			return err
		}
		if err := validateMax(f, lo); err != nil {
			return err
		}
		return m.write(cpu, freqAttr(cpu, attrMaxFreq), f.String())
	})
}

// SetMinFrequencies writes f to scaling_min_freq of every targeted online
// core. f must not exceed the core's current max.
func (m *Manager) SetMinFrequencies(f types.Frequency, t Target) error {
	if err := validateValue(f); err != nil {
		return err
	}
	cpus, err := m.Resolve(t, Online)
	if err != nil {
		return err
	}
	return forEach("set min frequency", cpus, func(cpu int) error {
		hi, err := m.readFreq(cpu, attrMaxFreq)
		if err != nil {
			return err
		}
		if err := validateMin(f, hi); err != nil {
			return err
		}
		return m.write(cpu, freqAttr(cpu, attrMinFreq), f.String())
	})
}
