/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Scan on a schedule and serve the latest report over HTTP",
	Long: `Run like "watch" and additionally serve the latest report and the Prometheus metrics.

Endpoints:
  /healthz
  /api/v1/report, /api/v1/report/text, /api/v1/report/summary
  /api/v1/nodes?status=DEGRADED, /api/v1/nodes/<name>
  /metrics

Example:
  gpu-health-monitor serve --port 9402 --cronjob "*/15 * * * *"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDaemon(cmd, true)
	},
}

func init() {
	serveCmd.Flags().Int("port", config.DefaultServerPort, "listen port")
	serveCmd.Flags().String("cronjob", config.DefaultCronJob, `scan schedule, a cron spec or "@every <duration>"`)
	mustBind(serveCmd.Flags(), config.ServerPortKey, "port")
	rootCmd.AddCommand(serveCmd)
}
