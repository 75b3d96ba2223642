//go:build linux

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ja7ad/cpufreq/pkg/config"
	"github.com/ja7ad/cpufreq/pkg/cpufreq"
)

type globalOpts struct {
	configPath string
	baseDir    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalOpts

	root := &cobra.Command{
		Use:   "cpufreq",
		Short: "Inspect and control Linux CPU frequency scaling",
		Long: `The cpufreq tool reads and changes per-core frequency scaling through
/sys/devices/system/cpu: governors, min/max/target frequencies, and
core online state. Changes need root.

Frequencies are printed and accepted in the driver's own unit (usually kHz).

Examples:
  cpufreq info
  cpufreq set-governor userspace --all
  cpufreq set-max 1200000 --cpus 0-3
  cpufreq disable-hyperthread
  cpufreq reset`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file (default $"+config.EnvVar+")")
	root.PersistentFlags().StringVar(&g.baseDir, "base-dir", "", "cpu sysfs directory (overrides config)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log every sysfs write")

	root.AddCommand(
		newInfoCmd(&g),
		newResetCmd(&g),
		newSetGovernorCmd(&g),
		newSetFrequencyCmd(&g, "set-frequency", "Set the target frequency (userspace governor)", (*cpufreq.Manager).SetFrequencies),
		newSetFrequencyCmd(&g, "set-min", "Set the minimum scaling frequency", (*cpufreq.Manager).SetMinFrequencies),
		newSetFrequencyCmd(&g, "set-max", "Set the maximum scaling frequency", (*cpufreq.Manager).SetMaxFrequencies),
		newEnableCmd(&g),
		newDisableCmd(&g),
		newEnableAllCmd(&g),
		newDisableHyperthreadCmd(&g),
	)
	return root
}

// open loads the configuration and builds the Manager for one invocation.
func (g *globalOpts) open(cmd *cobra.Command) (*cpufreq.Manager, error) {
	m, _, err := g.openConfig(cmd)
	return m, err
}

func (g *globalOpts) openConfig(cmd *cobra.Command) (*cpufreq.Manager, *config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.baseDir != "" {
		cfg.BaseDir = g.baseDir
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	if g.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	m, err := cpufreq.New(cfg.Manager(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.BaseDir, err)
	}
	return m, cfg, nil
}
