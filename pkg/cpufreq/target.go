package cpufreq

import "k8s.io/utils/cpuset"

// Universe names one of the kernel's top-level CPU lists.
type Universe string

const (
	Online  Universe = "online"
	Offline Universe = "offline"
	Present Universe = "present"
)

// Target selects the cores an operation acts on. The zero value selects
// every core of the operation's universe (all online cores for most
// operations, all present cores for Enable and Reset).
//
// A Target is only a request: it is intersected with the live universe at
// call time and never stored.
type Target struct {
	explicit bool
	cpus     cpuset.CPUSet
}

// AllCPUs selects the whole universe.
func AllCPUs() Target { return Target{} }

// CPUs selects the given core ids.
func CPUs(ids ...int) Target {
	return Target{explicit: true, cpus: cpuset.New(ids...)}
}

// CPUSet selects the cores in s.
func CPUSet(s cpuset.CPUSet) Target {
	return Target{explicit: true, cpus: s.Clone()}
}

// All reports whether t selects the whole universe.
func (t Target) All() bool { return !t.explicit }

func (t Target) String() string {
	if !t.explicit {
		return "all"
	}
	return t.cpus.String()
}

// resolve returns the cores of universe selected by t. The result is
// always a subset of universe.
func resolve(t Target, universe cpuset.CPUSet) cpuset.CPUSet {
	if !t.explicit {
		return universe.Clone()
	}
	return universe.Intersection(t.cpus)
}
