package model

import (
	"image"
	"testing"
)

func TestWindowBounds(t *testing.T) {
	t.Parallel()

	b := WindowBounds{
		Origin:       Point{X: 10, Y: 20},
		Width:        1920,
		Height:       1080,
		ClientOrigin: Point{X: 12, Y: 57},
	}

	if got, want := b.Rect(), image.Rect(10, 20, 1930, 1100); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
	if !b.Valid() {
		t.Error("expected valid bounds")
	}
	if got := b.String(); got != "1920x1080@(10,20)" {
		t.Errorf("String() = %q", got)
	}

	for _, zero := range []WindowBounds{{Width: 0, Height: 10}, {Width: 10, Height: 0}, {Width: -1, Height: 5}} {
		if zero.Valid() {
			t.Errorf("expected %v to be invalid", zero)
		}
	}
}

func TestElementCenter(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		element  Element
		expected Point
	}{
		{"whole pixels", Element{X: 0, Y: 100, Width: 200, Height: 40}, Point{X: 100, Y: 120}},
		{"rounds half up", Element{X: 10.5, Y: 0, Width: 10, Height: 5}, Point{X: 16, Y: 3}},
		{"fractional", Element{X: 1.2, Y: 2.2, Width: 0.4, Height: 0.4}, Point{X: 1, Y: 2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.element.Center(); got != tc.expected {
				t.Errorf("Center() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestPointAdd(t *testing.T) {
	t.Parallel()

	origin := Point{X: 12, Y: 57}
	if got := origin.Add(Point{X: 100, Y: 120}); got != (Point{X: 112, Y: 177}) {
		t.Errorf("Add() = %v", got)
	}
}

func TestElementVisible(t *testing.T) {
	t.Parallel()

	if (Element{Width: 0, Height: 10}).Visible() {
		t.Error("zero width element must not be visible")
	}
	if !(Element{Width: 1, Height: 1}).Visible() {
		t.Error("expected visible element")
	}
}
