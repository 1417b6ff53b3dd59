/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package monitors

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils/channel"
)

// BuildFunc (re)reads the configuration and returns the monitor settings and the scanner.
type BuildFunc func() (*MonitorConfig, Scanner, error)

// MonitorManager owns the scan monitor and rebuilds it when the config file changes.
type MonitorManager struct {
	mu        sync.Mutex
	monitor   *ScanMonitor
	queue     *types.ReportQueue
	build     BuildFunc
	onFailure func(error)
	// The config file to watch. Nothing is watched when empty.
	configPath string
	tomb       *channel.Tomb
	isExited   bool
}

func NewMonitorManager(queue *types.ReportQueue, configPath string,
	build BuildFunc, onFailure func(error)) *MonitorManager {
	return &MonitorManager{
		queue:      queue,
		build:      build,
		onFailure:  onFailure,
		configPath: configPath,
		tomb:       channel.NewTomb(),
		isExited:   true,
	}
}

func (mgr *MonitorManager) Start() error {
	conf, scanner, err := mgr.build()
	if err != nil {
		return err
	}
	monitor := NewScanMonitor(conf, scanner, mgr.queue, mgr.onFailure)
	if err = monitor.Start(); err != nil {
		return err
	}
	mgr.mu.Lock()
	mgr.monitor = monitor
	mgr.mu.Unlock()

	if mgr.configPath != "" {
		go mgr.updateConfig()
	} else {
		mgr.tomb.Done()
	}
	mgr.isExited = false
	return nil
}

func (mgr *MonitorManager) Stop() {
	if !mgr.isExited && mgr.tomb != nil {
		mgr.tomb.Stop()
		mgr.mu.Lock()
		if mgr.monitor != nil {
			mgr.monitor.Stop()
		}
		mgr.mu.Unlock()
	}
	mgr.isExited = true
}

func (mgr *MonitorManager) IsExited() bool {
	return mgr.isExited
}

func (mgr *MonitorManager) Monitor() *ScanMonitor {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	return mgr.monitor
}

// Reload rebuilds the scanner. The monitor is restarted only when its schedule changed.
// On error the running monitor is kept as it is.
func (mgr *MonitorManager) Reload() error {
	conf, scanner, err := mgr.build()
	if err != nil {
		return err
	}
	if err = conf.Validate(); err != nil {
		return err
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	current := mgr.monitor
	if current != nil && current.Config().Cronjob == conf.Cronjob {
		current.Update(conf, scanner)
		klog.Infof("scan monitor updated")
		return nil
	}

	monitor := NewScanMonitor(conf, scanner, mgr.queue, mgr.onFailure)
	if current != nil {
		current.Stop()
	}
	if err = monitor.Start(); err != nil {
		return err
	}
	mgr.monitor = monitor
	klog.Infof("scan monitor restarted with cronjob %q", conf.Cronjob)
	return nil
}

func (mgr *MonitorManager) updateConfig() {
	defer mgr.tomb.Done()

	for {
		select {
		case <-mgr.tomb.Stopping():
			klog.Infof("stop to watch config: %s", mgr.configPath)
			return
		default:
			if err := mgr.watchConfig(); err != nil {
				time.Sleep(time.Second)
			}
		}
	}
}

// watchConfig watches the parent dir, so a config map update that swaps symlinks is seen too.
func (mgr *MonitorManager) watchConfig() error {
	dir := filepath.Dir(mgr.configPath)
	watcher, err := utils.GetDirWatcher(dir)
	if err != nil {
		klog.ErrorS(err, "failed to get watcher", "path", dir)
		return err
	}
	defer func() {
		if err = watcher.Close(); err != nil {
			klog.ErrorS(err, "failed to close dir watcher")
		}
	}()

	klog.Infof("start to watch dir(%s) to update config", dir)
	for {
		select {
		case <-mgr.tomb.Stopping():
			return nil
		case ev, ok := <-watcher.Events:
			if ok && ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove) != 0 {
				if !utils.IsFileExist(mgr.configPath) {
					continue
				}
				if err = mgr.Reload(); err != nil {
					klog.ErrorS(err, "failed to reload config", "path", mgr.configPath)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("unknown error")
			}
			return err
		}
	}
}
