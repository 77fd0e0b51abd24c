package model

import (
	"fmt"
	"image"
)

// Point is a position in screen coordinates (physical pixels).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// String returns the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// WindowBounds is the geometry of the target window as discovered by the
// window locator. The window is assumed not to move or resize after
// discovery; nothing enforces it.
type WindowBounds struct {
	// Origin is the top-left corner of the outer (framed) window.
	Origin Point `json:"origin"`

	// Width and Height are the outer window dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// ClientOrigin is the top-left corner of the client area. Element
	// bounds from the introspection feed are relative to this point.
	ClientOrigin Point `json:"clientOrigin"`
}

// Rect returns the outer bounding rectangle.
func (b WindowBounds) Rect() image.Rectangle {
	return image.Rect(b.Origin.X, b.Origin.Y, b.Origin.X+b.Width, b.Origin.Y+b.Height)
}

// Valid reports whether the bounds describe a usable, non-empty window.
func (b WindowBounds) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// String returns the bounds as "WxH@(x,y)".
func (b WindowBounds) String() string {
	return fmt.Sprintf("%dx%d@%s", b.Width, b.Height, b.Origin)
}
