/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/history"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the saved snapshots and the GIF",
	Long: `Remove the snapshot images of the image directory and the GIFs next to the
configured GIF path. Files that cannot be removed are logged and skipped.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	count := history.Clean([]string{config.GetImageDir()}, history.DefaultExtensions)
	count += history.Clean([]string{filepath.Dir(config.GetGifPath())}, []string{".gif"})
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d files\n", count)
	return nil
}
