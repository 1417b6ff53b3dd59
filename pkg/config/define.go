/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package config

const (
	// cluster
	clusterName = "cluster.name"

	// inventory
	inventoryPrefix        = "inventory."
	inventorySource        = inventoryPrefix + "source"
	inventoryCommand       = inventoryPrefix + "command"
	inventoryArgs          = inventoryPrefix + "args"
	inventoryTimeoutSecond = inventoryPrefix + "timeout_second"
	inventoryFile          = inventoryPrefix + "file"
	inventoryLabelSelector = inventoryPrefix + "label_selector"

	// cohort
	cohortPrefix     = "cohort."
	cohortStrategy   = cohortPrefix + "strategy"
	cohortPattern    = cohortPrefix + "pattern"
	cohortStatic     = cohortPrefix + "static"
	cohortKeySources = cohortPrefix + "key_sources"

	// baseline
	baselinePrefix    = "baseline."
	baselinePolicy    = baselinePrefix + "policy"
	baselineTieBreak  = baselinePrefix + "tiebreak"
	baselineOverrides = baselinePrefix + "overrides"

	// render
	renderPrefix   = "render."
	renderImageDir = renderPrefix + "image_dir"
	renderColor    = renderPrefix + "color"

	// history
	historyPrefix       = "history."
	historyGifPath      = historyPrefix + "gif_path"
	historyFrameDelayMs = historyPrefix + "frame_delay_ms"

	// daemon
	daemonPrefix                 = "daemon."
	daemonCronJob                = daemonPrefix + "cronjob"
	daemonRetryMaxElapsedSecond  = daemonPrefix + "retry_max_elapsed_second"
	daemonRetryInitialIntervalMs = daemonPrefix + "retry_initial_interval_ms"

	// server
	serverPrefix = "server."
	serverEnable = serverPrefix + "enable"
	serverPort   = serverPrefix + "port"

	// exporters
	exportersPrefix    = "exporters."
	exporterSnapshot   = exportersPrefix + "snapshot"
	exporterPrometheus = exportersPrefix + "prometheus"
	exporterKubernetes = exportersPrefix + "kubernetes"

	// log
	logPrefix     = "log."
	logFile       = logPrefix + "file"
	logFileSizeMB = logPrefix + "file_size_mb"
	logVerbosity  = logPrefix + "verbosity"
)

const (
	DefaultCronJob      = "@every 30m"
	DefaultImageDir     = "images"
	DefaultGifPath      = "history.gif"
	DefaultFrameDelayMs = 500
	DefaultServerPort   = 9402
	DefaultTimeout      = 60
)

// Keys that the command line may override
const (
	ClusterNameKey     = clusterName
	InventorySourceKey = inventorySource
	InventoryFileKey   = inventoryFile
	ImageDirKey        = renderImageDir
	ColorKey           = renderColor
	GifPathKey         = historyGifPath
	FrameDelayKey      = historyFrameDelayMs
	CronJobKey         = daemonCronJob
	ServerPortKey      = serverPort
	LogFileKey         = logFile
	LogVerbosityKey    = logVerbosity
)
