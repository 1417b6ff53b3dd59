/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package history

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/assert"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	assert.NilError(t, err)
	defer f.Close()
	assert.NilError(t, png.Encode(f, img))
}

func TestAnimate(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "status_20250102_000000.png"), 20, 10, color.White)
	writePNG(t, filepath.Join(dir, "status_20250101_000000.png"), 20, 10, color.Black)
	writePNG(t, filepath.Join(dir, "status_20250103_000000.png"), 30, 10, color.White)
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	frames, err := Frames(dir)
	assert.NilError(t, err)
	assert.Equal(t, filepath.Base(frames[0]), "status_20250101_000000.png")
	assert.Equal(t, len(frames), 3)

	out := filepath.Join(dir, "out", "history.gif")
	n, err := Animate(dir, out, 0)
	assert.NilError(t, err)
	assert.Equal(t, n, 2)

	f, err := os.Open(out)
	assert.NilError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	assert.NilError(t, err)
	assert.Equal(t, len(anim.Image), 2)
	assert.Equal(t, anim.Delay[0], 50)
	assert.Equal(t, anim.LoopCount, 0)
	// the oldest snapshot comes first
	r, g, b, _ := anim.Image[0].At(0, 0).RGBA()
	assert.Equal(t, r+g+b, uint32(0))
}

func TestAnimateDelay(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "status_20250101_000000.png"), 4, 4, color.White)
	out := filepath.Join(dir, "history.gif")
	_, err := Animate(dir, out, 250*time.Millisecond)
	assert.NilError(t, err)

	f, err := os.Open(out)
	assert.NilError(t, err)
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	assert.NilError(t, err)
	assert.Equal(t, anim.Delay[0], 25)
}

func TestAnimateNoImages(t *testing.T) {
	_, err := Animate(t.TempDir(), filepath.Join(t.TempDir(), "x.gif"), 0)
	assert.Assert(t, err != nil)
}

func TestClean(t *testing.T) {
	root := t.TempDir()
	images := filepath.Join(root, "images")
	assert.NilError(t, os.MkdirAll(filepath.Join(images, "keep.png"), 0755))
	for _, name := range []string{"a.png", "b.png", "c.txt"} {
		assert.NilError(t, os.WriteFile(filepath.Join(images, name), []byte("x"), 0644))
	}
	assert.NilError(t, os.WriteFile(filepath.Join(root, "history.gif"), []byte("x"), 0644))

	count := Clean([]string{root, images, filepath.Join(root, "missing")}, nil)
	assert.Equal(t, count, 3)
	_, err := os.Stat(filepath.Join(images, "c.txt"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(images, "keep.png"))
	assert.NilError(t, err)
	assert.Equal(t, Clean([]string{images}, []string{".png"}), 0)
}
