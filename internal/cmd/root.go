/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/klog"
)

var (
	cfgFile string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gpu-health-monitor",
	Short: "Find GPU nodes that report fewer or more GPUs than their peers",
	Long: `gpu-health-monitor reads the node inventory of a Slurm cluster, groups nodes that
are expected to carry identical hardware, derives the expected GPU count of each group
and flags every node that deviates from it.

Example:
  gpu-health-monitor scan
  gpu-health-monitor scan --file nodes.txt --output json
  gpu-health-monitor serve --config /etc/gpu-health-monitor/config.yaml
  gpu-health-monitor animate`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file in yaml")
	flags.String("cluster", "", "cluster name shown in reports and metrics")
	flags.String("log-file", "", "log to this file as well as stderr")
	flags.IntP("verbosity", "v", 0, "log verbosity")
	flags.String("image-dir", config.DefaultImageDir, "directory of the snapshot images")
	mustBind(flags, config.ClusterNameKey, "cluster")
	mustBind(flags, config.LogFileKey, "log-file")
	mustBind(flags, config.LogVerbosityKey, "verbosity")
	mustBind(flags, config.ImageDirKey, "image-dir")
}

func mustBind(flags *pflag.FlagSet, key, name string) {
	if err := config.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		if err := config.LoadConfig(cfgFile); err != nil {
			return fmt.Errorf("failed to load config %s: %w", cfgFile, err)
		}
	}
	if err := klog.Init(config.GetLogFile(), config.GetLogFileSizeMB(), config.GetLogVerbosity()); err != nil {
		return fmt.Errorf("failed to init logs. %s", err.Error())
	}
	return nil
}
