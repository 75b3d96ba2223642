//go:build linux

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/utils/cpuset"

	"github.com/ja7ad/cpufreq/pkg/cpufreq"
)

// cpuListValue is a pflag.Value holding a kernel-style cpu list.
type cpuListValue struct {
	set cpuset.CPUSet
	ok  bool
}

var _ pflag.Value = (*cpuListValue)(nil)

func (v *cpuListValue) String() string {
	if !v.ok {
		return ""
	}
	return v.set.String()
}

func (v *cpuListValue) Set(s string) error {
	set, err := cpufreq.ParseCPUList(s)
	if err != nil {
		return err
	}
	v.set, v.ok = set, true
	return nil
}

func (v *cpuListValue) Type() string { return "cpulist" }

// selection binds --all and --cpus to a command.
type selection struct {
	all  bool
	cpus cpuListValue
}

func addSelectionFlags(cmd *cobra.Command, s *selection) {
	cmd.Flags().BoolVar(&s.all, "all", false, "act on every core (default)")
	cmd.Flags().Var(&s.cpus, "cpus", "cores to act on, kernel list format (e.g. 0-3,6)")
	cmd.MarkFlagsMutuallyExclusive("all", "cpus")
}

func (s *selection) target() cpufreq.Target {
	if s.all || !s.cpus.ok {
		return cpufreq.AllCPUs()
	}
	return cpufreq.CPUSet(s.cpus.set)
}
