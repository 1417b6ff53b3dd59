/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package monitors

import (
	"fmt"
	"time"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/config"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils/timeutil"
)

const (
	DefaultRetryInitialInterval = 5 * time.Second
)

type MonitorConfig struct {
	// Scan interval, default "@every 30m"
	Cronjob string `json:"cronjob"`
	// How long an unavailable inventory is retried before the scan is given up. 0 disables retries.
	RetryMaxElapsed time.Duration `json:"retryMaxElapsed,omitempty"`
	// First wait between two attempts. It grows exponentially.
	RetryInitialInterval time.Duration `json:"retryInitialInterval,omitempty"`
	// Scan right after start instead of waiting for the first tick
	RunOnStart bool `json:"runOnStart,omitempty"`
}

// LoadMonitorConfig reads the daemon section of the loaded configuration.
func LoadMonitorConfig() *MonitorConfig {
	conf := &MonitorConfig{
		Cronjob:              config.GetCronJob(),
		RetryMaxElapsed:      config.GetRetryMaxElapsed(),
		RetryInitialInterval: config.GetRetryInitialInterval(),
		RunOnStart:           true,
	}
	conf.SetDefaults()
	return conf
}

func (conf *MonitorConfig) SetDefaults() {
	if conf.Cronjob == "" {
		conf.Cronjob = config.DefaultCronJob
	}
	if conf.RetryInitialInterval <= 0 {
		conf.RetryInitialInterval = DefaultRetryInitialInterval
	}
	if conf.RetryMaxElapsed < 0 {
		conf.RetryMaxElapsed = 0
	}
}

func (conf *MonitorConfig) Validate() error {
	if len(conf.Cronjob) == 0 {
		return fmt.Errorf("the cronjob of config is not found")
	}
	if _, _, err := timeutil.ParseSchedule(conf.Cronjob); err != nil {
		return fmt.Errorf("invalid cronjob %q: %s", conf.Cronjob, err.Error())
	}
	return nil
}
