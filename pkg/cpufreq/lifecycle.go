package cpufreq

import "k8s.io/utils/cpuset"

// Enable brings the targeted present cores online. Cores already online are
// left alone, so a boot cpu without an online attribute is never written.
func (m *Manager) Enable(t Target) error {
	present, err := m.Resolve(t, Present)
	if err != nil {
		return err
	}
	online, err := m.OnlineCPUs()
	if err != nil {
		return err
	}
	return forEach("enable cpu", present.Difference(online), func(cpu int) error {
		return m.write(cpu, onlineAttr(cpu), "1")
	})
}

// EnableAll brings every present core online.
func (m *Manager) EnableAll() error { return m.Enable(AllCPUs()) }

// Disable takes the targeted online cores offline. Cores already offline
// are left alone. Core 0 is not special-cased; kernels that forbid
// offlining it report the failure as ErrIO.
func (m *Manager) Disable(t Target) error {
	cpus, err := m.Resolve(t, Online)
	if err != nil {
		return err
	}
	return forEach("disable cpu", cpus, func(cpu int) error {
		return m.write(cpu, onlineAttr(cpu), "0")
	})
}

// DisableHyperthread keeps one thread per physical core online and takes
// its siblings offline. The kept thread is the lowest-numbered online
// sibling. All sibling lists are read before the first write. It returns
// the cores it selected for disabling.
func (m *Manager) DisableHyperthread() (cpuset.CPUSet, error) {
	online, err := m.OnlineCPUs()
	if err != nil {
		return cpuset.New(), err
	}

	victims := cpuset.New()
	for _, cpu := range online.List() {
		raw, err := m.read(cpu, siblingsAttr(cpu))
		if err != nil {
			return cpuset.New(), err
		}
		siblings, err := ParseCPUList(raw)
		if err != nil {
			return cpuset.New(), cpuIOError(cpu, err)
		}
		live := siblings.Intersection(online).List()
		if len(live) < 2 {
			continue
		}
		victims = victims.Union(cpuset.New(live[1:]...))
	}

	if victims.IsEmpty() {
		m.log.Info("no hyperthread siblings online")
		return victims, nil
	}
	err = forEach("disable hyperthread", victims, func(cpu int) error {
		return m.write(cpu, onlineAttr(cpu), "0")
	})
	if err != nil {
		return victims, err
	}
	m.log.Info("hyperthread siblings disabled", "cpus", victims.String())
	return victims, nil
}

// Reset restores the full operating envelope of the targeted present
// cores: they are brought online, the reset governor is applied, max is
// set to the highest and min to the lowest available frequency. It is the
// recovery path after a partially failed batch.
func (m *Manager) Reset(t Target) error {
	if err := m.Enable(t); err != nil {
		return err
	}
	// Re-resolve after onlining.
	cpus, err := m.Resolve(t, Present)
	if err != nil {
		return err
	}
	online, err := m.OnlineCPUs()
	if err != nil {
		return err
	}
	cpus = cpus.Intersection(online)

	hi := m.caps.MaxFrequency().String()
	lo := m.caps.MinFrequency().String()
	err = forEach("reset", cpus, func(cpu int) error {
		if err := m.write(cpu, freqAttr(cpu, attrGovernor), m.resetGovernor); err != nil {
			return err
		}
		if err := m.write(cpu, freqAttr(cpu, attrMaxFreq), hi); err != nil {
			return err
		}
		return m.write(cpu, freqAttr(cpu, attrMinFreq), lo)
	})
	if err != nil {
		return err
	}
	m.log.Info("cpufreq reset", "cpus", cpus.String(), "governor", m.resetGovernor, "min", lo, "max", hi)
	return nil
}
