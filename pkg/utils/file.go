/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package utils

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"
)

// GetDirWatcher watches a directory. The caller owns the returned watcher.
func GetDirWatcher(directoryPath string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = watcher.Add(directoryPath); err != nil {
		if err2 := watcher.Close(); err2 != nil {
			klog.ErrorS(err2, "failed to close watcher")
		}
		return nil, err
	}
	return watcher, nil
}

func IsFileExist(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func IsDirExist(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if dir == "" || IsDirExist(dir) {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
