//go:build linux

package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ja7ad/cpufreq/pkg/cpufreq"
	"github.com/ja7ad/cpufreq/pkg/system/util"
	"github.com/ja7ad/cpufreq/pkg/types"
)

type report struct {
	Host        string                    `yaml:"host"`
	Kernel      string                    `yaml:"kernel"`
	Driver      string                    `yaml:"driver"`
	Governors   []string                  `yaml:"available_governors"`
	Frequencies []types.Frequency         `yaml:"available_frequencies"`
	Online      string                    `yaml:"online"`
	Offline     string                    `yaml:"offline"`
	Present     string                    `yaml:"present"`
	Writable    bool                      `yaml:"writable"`
	Cores       map[int]cpufreq.CoreState `yaml:"cores"`
}

func collectReport(m *cpufreq.Manager, t cpufreq.Target, baseDir string) (*report, error) {
	host, kernel, _ := util.SystemSummary()
	rep := &report{
		Host:        host,
		Kernel:      kernel,
		Driver:      m.Driver(),
		Governors:   m.AvailableGovernors(),
		Frequencies: m.AvailableFrequencies(),
	}

	lists := []struct {
		u   cpufreq.Universe
		dst *string
	}{
		{cpufreq.Online, &rep.Online},
		{cpufreq.Offline, &rep.Offline},
		{cpufreq.Present, &rep.Present},
	}
	for _, l := range lists {
		set, err := m.CPUs(l.u)
		if err != nil {
			return nil, err
		}
		*l.dst = cpufreq.FormatCPUList(set)
	}

	states, err := m.CoreStates(t)
	if err != nil {
		return nil, err
	}
	rep.Cores = states
	rep.Writable = util.Writable(filepath.Join(baseDir, "cpu0", "cpufreq", "scaling_governor"))
	return rep, nil
}

func printReport(w io.Writer, rep *report) error {
	freqs := make([]string, len(rep.Frequencies))
	for i, f := range rep.Frequencies {
		freqs[i] = f.String()
	}

	fmt.Fprintf(w, _console,
		rep.Host, rep.Kernel, rep.Driver,
		strings.Join(rep.Governors, " "), strings.Join(freqs, " "),
		orNone(rep.Online), orNone(rep.Offline), orNone(rep.Present),
		rep.Writable, time.Now().Format("2006-01-02 15:04:05"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CPU\tGOVERNOR\tMIN\tMAX\tCURRENT\t")
	fmt.Fprintln(tw, "---\t--------\t---\t---\t-------\t")
	for _, cpu := range sortedKeys(rep.Cores) {
		s := rep.Cores[cpu]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s (%s)\t\n", cpu, s.Governor, s.Min, s.Max, s.Current, s.Current.Humanized())
	}
	return tw.Flush()
}

func printYAML(w io.Writer, rep *report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return err
	}
	return enc.Close()
}

func sortedKeys(m map[int]cpufreq.CoreState) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

const _console = `CPUFreq - Linux CPU frequency scaling control

       Host: %s
       Kernel: %s
       Driver: %s
       Governors: %s
       Frequencies: %s
       Online: %s
       Offline: %s
       Present: %s
       Writable: %t

Per-core state as of %s:

`
