//go:build linux

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ja7ad/cpufreq/pkg/cpufreq"
	"github.com/ja7ad/cpufreq/pkg/types"
)

type setFreqFunc func(m *cpufreq.Manager, f types.Frequency, t cpufreq.Target) error

func newInfoCmd(g *globalOpts) *cobra.Command {
	var (
		sel    selection
		output string
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show driver capabilities and per-core state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, cfg, err := g.openConfig(cmd)
			if err != nil {
				return err
			}
			rep, err := collectReport(m, sel.target(), cfg.BaseDir)
			if err != nil {
				return err
			}
			switch output {
			case "table":
				return printReport(cmd.OutOrStdout(), rep)
			case "yaml":
				return printYAML(cmd.OutOrStdout(), rep)
			default:
				return fmt.Errorf("unknown output %q (want table or yaml)", output)
			}
		},
	}
	addSelectionFlags(cmd, &sel)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or yaml")
	return cmd
}

func newResetCmd(g *globalOpts) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Online cores and restore the default governor and full frequency range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			return reportBatch(m.Reset(sel.target()))
		},
	}
	addSelectionFlags(cmd, &sel)
	return cmd
}

func newSetGovernorCmd(g *globalOpts) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "set-governor GOVERNOR",
		Short: "Set the scaling governor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			return reportBatch(m.SetGovernors(args[0], sel.target()))
		},
	}
	addSelectionFlags(cmd, &sel)
	return cmd
}

func newSetFrequencyCmd(g *globalOpts, use, short string, set setFreqFunc) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   use + " FREQUENCY",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := types.ParseFrequency(args[0])
			if err != nil {
				return err
			}
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			return reportBatch(set(m, f, sel.target()))
		},
	}
	addSelectionFlags(cmd, &sel)
	return cmd
}

func newEnableCmd(g *globalOpts) *cobra.Command {
	var cpus cpuListValue
	cmd := &cobra.Command{
		Use:   "enable --cpus LIST",
		Short: "Bring cores online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			return reportBatch(m.Enable(cpufreq.CPUSet(cpus.set)))
		},
	}
	cmd.Flags().Var(&cpus, "cpus", "cores to bring online")
	_ = cmd.MarkFlagRequired("cpus")
	return cmd
}

func newDisableCmd(g *globalOpts) *cobra.Command {
	var cpus cpuListValue
	cmd := &cobra.Command{
		Use:   "disable --cpus LIST",
		Short: "Take cores offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			return reportBatch(m.Disable(cpufreq.CPUSet(cpus.set)))
		},
	}
	cmd.Flags().Var(&cpus, "cpus", "cores to take offline")
	_ = cmd.MarkFlagRequired("cpus")
	return cmd
}

func newEnableAllCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "enable-all",
		Short: "Bring every present core online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			return reportBatch(m.EnableAll())
		},
	}
}

func newDisableHyperthreadCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "disable-hyperthread",
		Short: "Keep one thread per physical core online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.open(cmd)
			if err != nil {
				return err
			}
			disabled, err := m.DisableHyperthread()
			if err != nil {
				return reportBatch(err)
			}
			if disabled.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no sibling threads online")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "disabled cpus %s\n", cpufreq.FormatCPUList(disabled))
			return nil
		},
	}
}

// reportBatch adds a recovery hint to partially applied batches.
func reportBatch(err error) error {
	var be *cpufreq.BatchError
	if errors.As(err, &be) && be.Done > 0 {
		return fmt.Errorf("%w (run 'cpufreq reset' to restore a known state)", err)
	}
	return err
}
