// Package viewport maps pointer coordinates between screen space and the
// logical board square under pan and zoom.
package viewport

import (
	"math"

	"github.com/brainboard/brainboard/shared/config"
)

type Point struct {
	X float64
	Y float64
}

// Rect is the measured on-screen box of the viewport element.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Target is what a pointer-down landed on.
type Target int

const (
	TargetCanvas Target = iota
	TargetCard
	TargetEditable
)

// Button is a pointer button as reported by the input layer.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// State is the session-ephemeral pan/zoom pair.
type State struct {
	Pan  Point
	Zoom float64
}

// Viewport is not safe for concurrent use; it lives on the event goroutine.
type Viewport struct {
	pan       Point
	zoom      float64
	boardSize float64
	minZoom   float64
	maxZoom   float64
	intensity float64

	bounds  *Rect
	panning bool
	last    Point
}

func New(cfg config.Canvas) *Viewport {
	return &Viewport{
		zoom:      1,
		boardSize: cfg.BoardSize,
		minZoom:   cfg.MinZoom,
		maxZoom:   cfg.MaxZoom,
		intensity: cfg.WheelIntensity,
	}
}

// SetBounds records the viewport box once it is mounted or resized.
func (v *Viewport) SetBounds(r Rect) {
	v.bounds = &r
}

func (v *Viewport) Mounted() bool {
	return v.bounds != nil
}

func (v *Viewport) Zoom() float64 {
	return v.zoom
}

func (v *Viewport) Pan() Point {
	return v.pan
}

func (v *Viewport) BoardSize() float64 {
	return v.boardSize
}

func (v *Viewport) State() State {
	return State{Pan: v.pan, Zoom: v.zoom}
}

// SetState restores a pan/zoom pair, clamping the zoom.
func (v *Viewport) SetState(s State) {
	v.pan = s.Pan
	v.zoom = v.clampZoom(s.Zoom)
}

// ScreenToBoard converts a client point to board coordinates.
// Before the viewport is measured it returns the board origin.
func (v *Viewport) ScreenToBoard(clientX, clientY float64) Point {
	if v.bounds == nil {
		return Point{}
	}
	c := v.bounds.Center()
	half := v.boardSize / 2
	return Point{
		X: (clientX-c.X-v.pan.X)/v.zoom + half,
		Y: (clientY-c.Y-v.pan.Y)/v.zoom + half,
	}
}

// BoardToScreen is the inverse of ScreenToBoard.
func (v *Viewport) BoardToScreen(x, y float64) Point {
	if v.bounds == nil {
		return Point{}
	}
	c := v.bounds.Center()
	half := v.boardSize / 2
	return Point{
		X: (x-half)*v.zoom + c.X + v.pan.X,
		Y: (y-half)*v.zoom + c.Y + v.pan.Y,
	}
}

// ScreenDeltaToBoard scales a screen-pixel delta into board units.
func (v *Viewport) ScreenDeltaToBoard(dx, dy float64) Point {
	return Point{X: dx / v.zoom, Y: dy / v.zoom}
}

// Wheel zooms around the viewport center and reports whether anything changed.
func (v *Viewport) Wheel(deltaY float64) bool {
	if math.IsNaN(deltaY) {
		return false
	}
	next := v.clampZoom(v.zoom * (1 - deltaY*v.intensity))
	if next == v.zoom {
		return false
	}
	ratio := next / v.zoom
	v.pan = Point{X: v.pan.X * ratio, Y: v.pan.Y * ratio}
	v.zoom = next
	return true
}

// BeginPan starts a pan gesture. Only a primary press on empty canvas pans.
func (v *Viewport) BeginPan(button Button, clientX, clientY float64, target Target) bool {
	if button != ButtonPrimary || target != TargetCanvas {
		return false
	}
	v.panning = true
	v.last = Point{X: clientX, Y: clientY}
	return true
}

// PanMove accumulates the raw screen delta since the previous frame.
func (v *Viewport) PanMove(clientX, clientY float64) {
	if !v.panning {
		return
	}
	v.pan.X += clientX - v.last.X
	v.pan.Y += clientY - v.last.Y
	v.last = Point{X: clientX, Y: clientY}
}

func (v *Viewport) EndPan() {
	v.panning = false
}

func (v *Viewport) Panning() bool {
	return v.panning
}

func (v *Viewport) clampZoom(z float64) float64 {
	if math.IsNaN(z) || z < v.minZoom {
		return v.minZoom
	}
	if z > v.maxZoom {
		return v.maxZoom
	}
	return z
}
