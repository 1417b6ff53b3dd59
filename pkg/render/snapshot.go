/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"k8s.io/klog/v2"

	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/types"
	"github.com/AMD-AIG-AIMA/SAFE/gpu-health-monitor/pkg/utils"
)

const (
	SnapshotPrefix = "status_"
	SnapshotExt    = ".png"

	gridColumns = 5
	boxWidth    = 200
	boxHeight   = 90
	spacingX    = 20
	spacingY    = 24
	margin      = 20
	titleHeight = 40

	maxSnapshotsPerSecond = 100
)

var encodePNG = png.Encode

var (
	okColor       = color.RGBA{R: 0x1d, G: 0xd1, B: 0xa1, A: 0xff}
	degradedColor = color.RGBA{R: 0xff, G: 0x6b, B: 0x6b, A: 0xff}
	overColor     = color.RGBA{R: 0xfe, G: 0xca, B: 0x57, A: 0xff}
	edgeColor     = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)

// StatusColor returns the fill colour of a node box.
func StatusColor(status types.Status) color.RGBA {
	switch status {
	case types.StatusDegraded:
		return degradedColor
	case types.StatusOver:
		return overColor
	default:
		return okColor
	}
}

// SnapshotRenderer draws a report as a grid of node boxes, 5 per row, sorted by node name.
type SnapshotRenderer struct {
	Dir string
}

func NewSnapshotRenderer(dir string) *SnapshotRenderer {
	return &SnapshotRenderer{Dir: dir}
}

// Save writes the snapshot and returns its path, e.g. images/status_20250101_120000.png.
// An existing snapshot is never overwritten: a second scan within the same second is
// saved as status_20250101_120000_01.png, which sorts right after the first one.
func (s *SnapshotRenderer) Save(r *types.HealthReport) (string, error) {
	if err := utils.EnsureDir(s.Dir); err != nil {
		return "", err
	}
	f, path, err := s.create(r)
	if err != nil {
		return "", err
	}
	if err = s.Render(f, r); err != nil {
		f.Close()
		discard(path)
		return "", err
	}
	if err = f.Close(); err != nil {
		discard(path)
		return "", err
	}
	return path, nil
}

func (s *SnapshotRenderer) create(r *types.HealthReport) (*os.File, string, error) {
	base := r.SnapshotName(SnapshotPrefix, "")
	for i := 0; i < maxSnapshotsPerSecond; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%02d", base, i)
		}
		path := filepath.Join(s.Dir, name+SnapshotExt)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !os.IsExist(err) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("more than %d snapshots named %s", maxSnapshotsPerSecond, base)
}

func discard(path string) {
	if err := os.Remove(path); err != nil {
		klog.ErrorS(err, "failed to remove incomplete snapshot", "path", path)
	}
}

func (s *SnapshotRenderer) Render(w io.Writer, r *types.HealthReport) error {
	return encodePNG(w, Image(r))
}

// Image draws the snapshot of a report.
func Image(r *types.HealthReport) *image.RGBA {
	statuses := make([]types.NodeStatus, len(r.Statuses))
	copy(statuses, r.Statuses)
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Node.Name < statuses[j].Node.Name
	})

	rows := (len(statuses) + gridColumns - 1) / gridColumns
	if rows == 0 {
		rows = 1
	}
	width := 2*margin + gridColumns*boxWidth + (gridColumns-1)*spacingX
	height := 2*margin + titleHeight + rows*boxHeight + (rows-1)*spacingY
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	title := "Cluster GPU Health - " + r.Timestamp.Format("2006-01-02 15:04:05")
	if r.Cluster != "" {
		title = r.Cluster + ": " + title
	}
	drawCentered(img, title, width/2, margin+titleHeight/2, edgeColor)

	for i, st := range statuses {
		x := margin + (i%gridColumns)*(boxWidth+spacingX)
		y := margin + titleHeight + (i/gridColumns)*(boxHeight+spacingY)
		box := image.Rect(x, y, x+boxWidth, y+boxHeight)
		draw.Draw(img, box, image.NewUniform(edgeColor), image.Point{}, draw.Src)
		draw.Draw(img, box.Inset(1), image.NewUniform(StatusColor(st.Status)), image.Point{}, draw.Src)

		cx := x + boxWidth/2
		drawCentered(img, st.Node.Name, cx, y+boxHeight*30/100, edgeColor)
		drawCentered(img, string(st.Status), cx, y+boxHeight*55/100, edgeColor)
		drawCentered(img, fmt.Sprintf("%d/%d", st.Node.GpuCount, st.BaselineCount), cx, y+boxHeight*75/100, edgeColor)
	}
	return img
}

// drawCentered draws text with its centre at (cx, cy).
func drawCentered(img draw.Image, text string, cx, cy int, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	w := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()
	d.Dot = fixed.P(cx-w/2, cy-textHeight/2+metrics.Ascent.Ceil())
	d.DrawString(text)
}
