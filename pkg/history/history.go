/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package history

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"time"

	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils"
)

const (
	DefaultFrameDelay = 500 * time.Millisecond
)

var DefaultExtensions = []string{".png", ".gif"}

// Frames lists the snapshots of dir in lexicographic order, which is chronological
// for status_YYYYMMDD_HHMMSS.png names.
func Frames(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Animate stitches the snapshots of dir into one GIF that loops forever and returns the
// number of frames. Frames with a size different from the first one are skipped.
func Animate(dir, out string, delay time.Duration) (int, error) {
	files, err := Frames(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no images found in %s", dir)
	}
	if delay <= 0 {
		delay = DefaultFrameDelay
	}
	// gif delays are in 100ths of a second
	centis := int(delay / (10 * time.Millisecond))
	if centis < 1 {
		centis = 1
	}

	anim := &gif.GIF{LoopCount: 0}
	var bounds image.Rectangle
	for _, file := range files {
		img, err := decodePNG(file)
		if err != nil {
			klog.ErrorS(err, "failed to read frame, skipped", "file", file)
			continue
		}
		if len(anim.Image) == 0 {
			bounds = img.Bounds()
		} else if img.Bounds() != bounds {
			klog.Warningf("frame %s is %v, expected %v, skipped", file, img.Bounds(), bounds)
			continue
		}
		frame := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(frame, bounds, img, bounds.Min)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, centis)
	}
	if len(anim.Image) == 0 {
		return 0, fmt.Errorf("no readable images in %s", dir)
	}

	if err = utils.EnsureDir(filepath.Dir(out)); err != nil {
		return 0, err
	}
	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			klog.ErrorS(err, "failed to close file", "path", out)
		}
	}()
	if err = gif.EncodeAll(f, anim); err != nil {
		return 0, err
	}
	klog.Infof("GIF saved: %s, %d frames", out, len(anim.Image))
	return len(anim.Image), nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// Clean removes files with the given extensions directly inside each directory.
// Missing directories are ignored and failures are logged without stopping.
// It returns the number of removed files.
func Clean(dirs []string, exts []string) int {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	count := 0
	for _, dir := range dirs {
		if !utils.IsDirExist(dir) {
			continue
		}
		for _, ext := range exts {
			files, err := filepath.Glob(filepath.Join(dir, "*"+ext))
			if err != nil {
				klog.ErrorS(err, "invalid pattern", "dir", dir, "ext", ext)
				continue
			}
			for _, file := range files {
				if !utils.IsFileExist(file) {
					continue
				}
				if err = os.Remove(file); err != nil {
					klog.ErrorS(err, "failed to remove file", "path", file)
					continue
				}
				klog.Infof("Removed: %s", file)
				count++
			}
		}
	}
	return count
}
