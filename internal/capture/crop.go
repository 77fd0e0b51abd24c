package capture

import (
	"image"

	"golang.org/x/image/draw"
)

// Crop defaults: the showcase's navigation sidebar and title bar.
const (
	DefaultCropLeft     = 280
	DefaultCropTop      = 60
	DefaultCropMinWidth = 400
)

// CropSpec removes a fixed left and top margin from captures wider than
// MinWidth.
type CropSpec struct {
	Left     int
	Top      int
	MinWidth int
}

// DefaultCropSpec returns the sidebar/title-bar crop.
func DefaultCropSpec() CropSpec {
	return CropSpec{
		Left:     DefaultCropLeft,
		Top:      DefaultCropTop,
		MinWidth: DefaultCropMinWidth,
	}
}

// Applies reports whether the crop applies to an image of the given size.
// Images no wider than MinWidth are never cropped, nor are images the
// margins would reduce to nothing.
func (c CropSpec) Applies(width, height int) bool {
	return width > c.MinWidth && width > c.Left && height > c.Top
}

// Apply returns the cropped image and true, or img unchanged and false
// when the guard rejects it. The result always starts at (0,0).
func (c CropSpec) Apply(img image.Image) (image.Image, bool) {
	b := img.Bounds()
	if !c.Applies(b.Dx(), b.Dy()) {
		return img, false
	}

	src := image.Rect(b.Min.X+c.Left, b.Min.Y+c.Top, b.Max.X, b.Max.Y)
	dst := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
	return dst, true
}
