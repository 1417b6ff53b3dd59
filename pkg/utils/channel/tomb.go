/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package channel

import (
	"sync"
)

// Tomb controls the lifecycle of one background goroutine.
// Stop may be called more than once and from several goroutines.
type Tomb struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	doneOnce sync.Once
}

func NewTomb() *Tomb {
	return &Tomb{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Stop asks the goroutine to exit and waits until it calls Done.
func (t *Tomb) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
}

// Stopping is closed once Stop was called.
func (t *Tomb) Stopping() <-chan struct{} {
	return t.stop
}

// Done must be called by the goroutine right before it returns.
func (t *Tomb) Done() {
	t.doneOnce.Do(func() {
		close(t.done)
	})
}

func (t *Tomb) IsStopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}
