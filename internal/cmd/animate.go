/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/history"
)

// animateCmd represents the animate command
var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Stitch the saved snapshots into an animated GIF",
	Long: `Stitch every snapshot of the image directory, oldest first, into one GIF that
loops forever.

Example:
  gpu-health-monitor animate --gif history.gif --delay 250`,
	Args: cobra.NoArgs,
	RunE: runAnimate,
}

func init() {
	flags := animateCmd.Flags()
	flags.String("gif", config.DefaultGifPath, "output file")
	flags.Int("delay", config.DefaultFrameDelayMs, "delay between frames in milliseconds")
	mustBind(flags, config.GifPathKey, "gif")
	mustBind(flags, config.FrameDelayKey, "delay")
	rootCmd.AddCommand(animateCmd)
}

func runAnimate(cmd *cobra.Command, _ []string) error {
	out := config.GetGifPath()
	n, err := history.Animate(config.GetImageDir(), out, config.GetFrameDelay())
	if err != nil {
		return fmt.Errorf("failed to create gif: %s", err.Error())
	}
	fmt.Fprintf(cmd.OutOrStdout(), "GIF saved: %s, %d frames\n", out, n)
	return nil
}
