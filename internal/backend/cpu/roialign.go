package cpu

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/regionops-ml/regionops/internal/parallel"
	"github.com/regionops-ml/regionops/internal/tensor"
)

// This file holds the geometry/sampling kernel shared by the sequential and
// parallel drivers of both the forward and the backward pass. The drivers in
// roialign_forward.go and roialign_backward.go only decide how output cells
// are scheduled; everything numeric happens here.

// unravelIndex recovers (n, c, ph, pw) from a flat output index using
// row-major decomposition with pw fastest-varying.
func unravelIndex(i, channels, outH, outW int) (n, c, ph, pw int) {
	pw = i % outW
	ph = (i / outW) % outH
	c = (i / (outW * outH)) % channels
	n = i / (outW * outH * channels)
	return n, c, ph, pw
}

// regionGeometry describes the resolved sampling grid for one ROI.
type regionGeometry[T tensor.DType] struct {
	startX, startY T   // region origin in feature-map coordinates
	binW, binH     T   // size of one output bin
	gridW, gridH   int // sampling grid resolution per bin
	count          T   // nominal averaging denominator: gridH * gridW
}

// resolveGeometry scales one ROI row (batchIndex, xMin, yMin, xMax, yMax)
// into feature-map space and derives bin sizes and the per-bin sampling grid.
//
// Degenerate or inverted ROIs are forced to a minimum 1x1 region instead of
// being rejected. A sampling ratio of 0 derives the grid resolution from the
// bin size: ceil(regionSize / outputSize), so larger bins get finer grids.
func resolveGeometry[T tensor.DType](roi []T, spatialScale T, outH, outW, ratioH, ratioW int) regionGeometry[T] {
	startX := roi[1] * spatialScale
	startY := roi[2] * spatialScale
	endX := roi[3] * spatialScale
	endY := roi[4] * spatialScale

	regionW := max(endX-startX, 1)
	regionH := max(endY-startY, 1)
	binW := regionW / T(outW)
	binH := regionH / T(outH)

	gridH := ratioH
	if gridH <= 0 {
		gridH = ceilInt(regionH / T(outH))
	}
	gridW := ratioW
	if gridW <= 0 {
		gridW = ceilInt(regionW / T(outW))
	}

	return regionGeometry[T]{
		startX: startX,
		startY: startY,
		binW:   binW,
		binH:   binH,
		gridW:  gridW,
		gridH:  gridH,
		count:  T(gridH * gridW),
	}
}

// ceilInt returns ceil(v) as an int. v must be positive.
func ceilInt[T tensor.DType](v T) int {
	switch x := any(v).(type) {
	case float32:
		return int(math32.Ceil(x))
	case float64:
		return int(math.Ceil(x))
	default:
		panic("unsupported type")
	}
}

// corners holds the four integer neighbors of a sample point and their
// bilinear weights: w1 top-left, w2 top-right, w3 bottom-left, w4 bottom-right.
type corners[T tensor.DType] struct {
	yLow, yHigh, xLow, xHigh int
	w1, w2, w3, w4           T
}

// resolveCorners computes the interpolation corners for a continuous sample
// point (x, y) on a height x width plane.
//
// Returns ok=false when the point lies outside the valid band
// (y < -1 || y > height || x < -1 || x > width). Such samples contribute
// nothing, yet still count toward the nominal averaging denominator.
// Coordinates in [-1, 0) clamp to 0. When the low neighbor reaches the last
// row/column, low and high collapse to that index and the fractional part is
// pinned to zero, so there is no interpolation across the map boundary.
func resolveCorners[T tensor.DType](height, width int, y, x T) (corners[T], bool) {
	var c corners[T]
	if y < -1 || y > T(height) || x < -1 || x > T(width) {
		return c, false
	}

	if y <= 0 {
		y = 0
	}
	if x <= 0 {
		x = 0
	}

	yLow := int(y)
	xLow := int(x)
	var yHigh, xHigh int

	if yLow >= height-1 {
		yLow = height - 1
		yHigh = yLow
		y = T(yLow)
	} else {
		yHigh = yLow + 1
	}
	if xLow >= width-1 {
		xLow = width - 1
		xHigh = xLow
		x = T(xLow)
	} else {
		xHigh = xLow + 1
	}

	ly := y - T(yLow)
	lx := x - T(xLow)
	hy := 1 - ly
	hx := 1 - lx

	c = corners[T]{
		yLow: yLow, yHigh: yHigh, xLow: xLow, xHigh: xHigh,
		w1: hy * hx, w2: hy * lx, w3: ly * hx, w4: ly * lx,
	}
	return c, true
}

// forwardCell computes one pooled output value: bilinear samples over the
// cell's sampling grid, averaged by the nominal sample count even when some
// samples fell out of bounds.
func forwardCell[T tensor.DType](src, rois []T,
	channels, height, width, outH, outW int,
	spatialScale T, ratioH, ratioW, i int) T {

	n, c, ph, pw := unravelIndex(i, channels, outH, outW)
	roi := rois[n*5 : n*5+5]
	g := resolveGeometry(roi, spatialScale, outH, outW, ratioH, ratioW)

	batch := int(roi[0])
	planeOffset := (batch*channels + c) * height * width
	plane := src[planeOffset : planeOffset+height*width]

	var acc T
	for iy := 0; iy < g.gridH; iy++ {
		y := g.startY + T(ph)*g.binH + (T(iy)+0.5)*g.binH/T(g.gridH)
		for ix := 0; ix < g.gridW; ix++ {
			x := g.startX + T(pw)*g.binW + (T(ix)+0.5)*g.binW/T(g.gridW)

			crn, ok := resolveCorners(height, width, y, x)
			if !ok {
				continue
			}

			v1 := plane[crn.yLow*width+crn.xLow]
			v2 := plane[crn.yLow*width+crn.xHigh]
			v3 := plane[crn.yHigh*width+crn.xLow]
			v4 := plane[crn.yHigh*width+crn.xHigh]
			acc += crn.w1*v1 + crn.w2*v2 + crn.w3*v3 + crn.w4*v4
		}
	}
	return acc / g.count
}

// backwardCell scatters one output cell's gradient onto the four corner
// positions of every in-bounds grid sample. add is the accumulation
// primitive: a plain += for sequential execution, a CAS-based atomic add for
// parallel execution, since multiple cells may scatter into the same
// destination.
func backwardCell[T tensor.DType](grad, gradOut, rois []T,
	channels, height, width, outH, outW int,
	spatialScale T, ratioH, ratioW, i int, add func(addr *T, v T)) {

	n, c, ph, pw := unravelIndex(i, channels, outH, outW)
	roi := rois[n*5 : n*5+5]
	g := resolveGeometry(roi, spatialScale, outH, outW, ratioH, ratioW)

	batch := int(roi[0])
	planeOffset := (batch*channels + c) * height * width
	plane := grad[planeOffset : planeOffset+height*width]

	gradThisBin := gradOut[i]

	for iy := 0; iy < g.gridH; iy++ {
		y := g.startY + T(ph)*g.binH + (T(iy)+0.5)*g.binH/T(g.gridH)
		for ix := 0; ix < g.gridW; ix++ {
			x := g.startX + T(pw)*g.binW + (T(ix)+0.5)*g.binW/T(g.gridW)

			crn, ok := resolveCorners(height, width, y, x)
			if !ok {
				continue
			}

			// Indices are always >= 0 after clamping; kept as an invariant check.
			if crn.xLow < 0 || crn.xHigh < 0 || crn.yLow < 0 || crn.yHigh < 0 {
				continue
			}

			add(&plane[crn.yLow*width+crn.xLow], gradThisBin*crn.w1/g.count)
			add(&plane[crn.yLow*width+crn.xHigh], gradThisBin*crn.w2/g.count)
			add(&plane[crn.yHigh*width+crn.xLow], gradThisBin*crn.w3/g.count)
			add(&plane[crn.yHigh*width+crn.xHigh], gradThisBin*crn.w4/g.count)
		}
	}
}

// plainAdd is the sequential accumulation primitive.
func plainAdd[T tensor.DType](addr *T, v T) {
	*addr += v
}

// atomicAdd is the parallel accumulation primitive, dispatching to the
// CAS-based float accumulators.
func atomicAdd[T tensor.DType](addr *T, v T) {
	switch a := any(addr).(type) {
	case *float32:
		parallel.AddFloat32(a, float32(v))
	case *float64:
		parallel.AddFloat64(a, float64(v))
	default:
		panic("unsupported type")
	}
}
