package model

import "math"

// Element is a UI element reported by the introspection feed.
// Coordinates are physical pixels relative to the window client area.
type Element struct {
	TestID string  `json:"test_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Parent *string `json:"parent,omitempty"`
}

// Center returns the element's center point, rounded to whole pixels.
func (e Element) Center() Point {
	return Point{
		X: int(math.Round(e.X + e.Width/2)),
		Y: int(math.Round(e.Y + e.Height/2)),
	}
}

// Visible reports whether the element has a positive on-screen area.
func (e Element) Visible() bool {
	return e.Width > 0 && e.Height > 0
}
