/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/daemon"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan on a schedule until interrupted",
	Long: `Scan the cluster on a cron schedule, log every status change and save a snapshot
per scan. The config file is reloaded when it changes. The HTTP server of "serve"
is started too when server.enable is true.

Examples:
  gpu-health-monitor watch --cronjob "@every 10m"
  gpu-health-monitor watch --config config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDaemon(cmd, config.IsServerEnabled())
	},
}

func init() {
	watchCmd.Flags().String("cronjob", config.DefaultCronJob, `scan schedule, a cron spec or "@every <duration>"`)
	rootCmd.AddCommand(watchCmd)
}

// runDaemon binds --cronjob of the running command only, watch and serve both define it.
func runDaemon(cmd *cobra.Command, enableServer bool) error {
	if err := config.BindPFlag(config.CronJobKey, cmd.Flags().Lookup("cronjob")); err != nil {
		return err
	}
	d, err := daemon.NewDaemon(&daemon.Options{
		ConfigPath:   cfgFile,
		EnableServer: enableServer,
	})
	if err != nil {
		return err
	}
	return d.Start()
}
