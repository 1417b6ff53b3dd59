/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package timeutil

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule accepts standard 5-field cron specs and descriptors such as "@every 30m".
// It returns the schedule and the interval between its first two activations.
func ParseSchedule(spec string) (cron.Schedule, time.Duration, error) {
	if spec == "" {
		return nil, 0, fmt.Errorf("invalid input")
	}
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now().UTC()
	first := schedule.Next(now)
	interval := schedule.Next(first).Sub(first)
	return schedule, interval, nil
}

func CvtMilliSecToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
