package capture

import (
	"image"

	"github.com/kbinani/screenshot"
)

// Grabber reads pixels from the screen.
type Grabber interface {
	// Grab captures the given rectangle in screen coordinates.
	Grab(rect image.Rectangle) (image.Image, error)

	// Screen returns the bounds of the full virtual screen.
	Screen() (image.Rectangle, error)
}

// ScreenGrabber captures from the active displays.
type ScreenGrabber struct{}

// Grab implements Grabber.
func (ScreenGrabber) Grab(rect image.Rectangle) (image.Image, error) {
	return screenshot.CaptureRect(rect)
}

// Screen implements Grabber. It returns the union of all active displays.
func (ScreenGrabber) Screen() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return bounds, nil
}
