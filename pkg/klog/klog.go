/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package klog

import (
	"flag"
	"strconv"

	"k8s.io/klog/v2"
)

// Init configures klog on a private flag set, so it does not clash with the CLI flags.
// An empty logfilePath logs to stderr only. logFileSize is in MB, 0 keeps the klog default.
func Init(logfilePath string, logFileSize int, verbosity int) error {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	values := map[string]string{
		"skip_log_headers": "true",
		"v":                strconv.Itoa(verbosity),
	}
	if logfilePath != "" {
		values["log_file"] = logfilePath
		values["logtostderr"] = "false"
		values["alsologtostderr"] = "true"
		if logFileSize != 0 {
			values["log_file_max_size"] = strconv.Itoa(logFileSize)
		}
	} else {
		values["logtostderr"] = "true"
	}
	for name, value := range values {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
