package gesture

import "math"

// Handle is a resize grip on an image card.
type Handle int

const (
	HandleTopLeft Handle = iota
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleRight
	HandleBottom
)

// signs returns which way the grip moves the right (sx) and bottom (sy)
// edges: +1 grows with positive deltas, -1 with negative, 0 not at all.
func (h Handle) signs() (sx, sy float64) {
	switch h {
	case HandleTopLeft:
		return -1, -1
	case HandleTopRight:
		return 1, -1
	case HandleBottomLeft:
		return -1, 1
	case HandleBottomRight:
		return 1, 1
	case HandleRight:
		return 1, 0
	case HandleBottom:
		return 0, 1
	}
	return 0, 0
}

// Rect is card geometry in board units.
type Rect struct {
	X, Y, W, H float64
}

// resizeLocked resizes r by a board-space delta dragged on handle h keeping
// W/H constant. The edge opposite the handle stays fixed, the result stays
// inside the [0, boardSize] square and neither side drops below minSize.
func resizeLocked(r Rect, h Handle, dx, dy, boardSize, minSize float64) Rect {
	sx, sy := h.signs()
	ratio := r.W / r.H

	var w float64
	switch {
	case sx == 0:
		w = (r.H + sy*dy) * ratio
	case sy == 0:
		w = r.W + sx*dx
	default:
		fromX := r.W + sx*dx
		fromY := (r.H + sy*dy) * ratio
		if math.Abs(fromX-r.W) >= math.Abs(fromY-r.W) {
			w = fromX
		} else {
			w = fromY
		}
	}

	maxW := boardSize - r.X
	if sx < 0 {
		maxW = r.X + r.W
	}
	maxH := boardSize - r.Y
	if sy < 0 {
		maxH = r.Y + r.H
	}
	w = math.Min(w, math.Min(maxW, maxH*ratio))
	w = math.Max(w, math.Max(minSize, minSize*ratio))

	out := Rect{X: r.X, Y: r.Y, W: w, H: w / ratio}
	if sx < 0 {
		out.X = r.X + r.W - out.W
	}
	if sy < 0 {
		out.Y = r.Y + r.H - out.H
	}
	return out
}

// clampPosition keeps a card of size w x h inside the board square.
func clampPosition(x, y, w, h, boardSize float64) (float64, float64) {
	return clamp(x, 0, math.Max(0, boardSize-w)), clamp(y, 0, math.Max(0, boardSize-h))
}

// fitWidth scales natural pixel dimensions down to maxWidth, keeping the
// aspect ratio and rounding the height.
func fitWidth(naturalW, naturalH int, maxWidth float64) (float64, float64) {
	w, h := float64(naturalW), float64(naturalH)
	if w > maxWidth {
		h = math.Round(h * (maxWidth / w))
		w = maxWidth
	}
	return w, h
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
