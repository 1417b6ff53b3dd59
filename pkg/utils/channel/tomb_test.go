/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package channel

import (
	"testing"

	"gotest.tools/assert"
)

func TestTomb(t *testing.T) {
	tomb := NewTomb()
	ticks := make(chan int)
	go func() {
		defer tomb.Done()
		for i := 0; ; i++ {
			select {
			case <-tomb.Stopping():
				return
			case ticks <- i:
			}
		}
	}()
	assert.Equal(t, <-ticks, 0)
	assert.Equal(t, <-ticks, 1)
	assert.Equal(t, tomb.IsStopped(), false)

	tomb.Stop()
	assert.Equal(t, tomb.IsStopped(), true)
	tomb.Stop()
}
