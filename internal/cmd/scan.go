/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/inventory"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/render"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/scan"
)

var (
	outputFormat   string
	noSnapshot     bool
	failOnDegraded bool
)

// errUnhealthy is returned with --fail-on-degraded when a node deviates.
var errUnhealthy = errors.New("some nodes deviate from the expected gpu count")

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the cluster once and print the status of every node",
	Long: `Scan the cluster once: read the inventory, derive the expected GPU count of every
cohort, print one line per node and save a snapshot image.

Examples:
  # Scan with scontrol
  gpu-health-monitor scan

  # Scan a captured "scontrol show node" dump, print json
  gpu-health-monitor scan --file nodes.txt --output json

  # Read the dump from stdin
  scontrol show node | gpu-health-monitor scan --file -`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.StringVarP(&outputFormat, "output", "o", render.TextFormat, "output format: text, json or yaml")
	flags.BoolVar(&noSnapshot, "no-snapshot", false, "do not save a snapshot image")
	flags.BoolVar(&failOnDegraded, "fail-on-degraded", false, "exit non-zero if any node is not OK")
	flags.StringP("file", "f", "", `read the inventory from a file instead of running scontrol, "-" for stdin`)
	flags.Bool("color", true, "colour the status column")
	mustBind(flags, config.InventoryFileKey, "file")
	mustBind(flags, config.ColorKey, "color")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	renderer, err := render.NewRenderer(outputFormat, useColor(cmd))
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("file") {
		config.SetValue(config.InventorySourceKey, inventory.FileSourceType)
	}
	scanner, err := scan.BuildScanner()
	if err != nil {
		return fmt.Errorf("scan failed: %s", err.Error())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %s", err.Error())
	}

	out := cmd.OutOrStdout()
	if err = renderer.Render(out, report); err != nil {
		return err
	}
	if !noSnapshot {
		path, err := render.NewSnapshotRenderer(config.GetImageDir()).Save(report)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %s", err.Error())
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Snapshot saved to: %s\n", path)
	}
	if failOnDegraded && !report.IsHealthy() {
		return errUnhealthy
	}
	return nil
}

// useColor follows --color when given, otherwise the config, and never colours a pipe.
func useColor(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("color") {
		return config.IsColorEnabled()
	}
	if !config.IsColorEnabled() {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
