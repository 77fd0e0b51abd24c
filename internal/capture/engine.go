package capture

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/docshot/internal/model"
	"golang.org/x/crypto/sha3"
)

// Engine captures sections into an output directory.
type Engine struct {
	grabber   Grabber
	outputDir string
	crop      CropSpec
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithCropSpec overrides the crop margins and guard.
func WithCropSpec(c CropSpec) Option {
	return func(e *Engine) {
		e.crop = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine writing into outputDir.
func NewEngine(g Grabber, outputDir string, opts ...Option) *Engine {
	e := &Engine{
		grabber:   g,
		outputDir: outputDir,
		crop:      DefaultCropSpec(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// OutputDir returns the directory screenshots are written to.
func (e *Engine) OutputDir() string {
	return e.outputDir
}

// PathFor returns the file a section is written to.
func (e *Engine) PathFor(sectionID string) string {
	return filepath.Join(e.outputDir, sectionID+".png")
}

// Capture grabs the window region (or the whole screen when bounds is
// nil), applies the crop when requested, and writes the PNG, replacing any
// previous file for the section.
func (e *Engine) Capture(ctx context.Context, sectionID string, bounds *model.WindowBounds, crop bool) (model.CaptureResult, error) {
	if err := validateSectionID(sectionID); err != nil {
		return model.CaptureResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.CaptureResult{}, err
	}

	rect, err := e.region(bounds)
	if err != nil {
		return model.CaptureResult{}, err
	}

	img, err := e.grabber.Grab(rect)
	if err != nil {
		return model.CaptureResult{}, fmt.Errorf("failed to grab screen region %v: %w", rect, err)
	}
	if img == nil || img.Bounds().Empty() {
		return model.CaptureResult{}, ErrEmptyCapture
	}

	cropped := false
	if crop {
		img, cropped = e.crop.Apply(img)
		if !cropped {
			e.logger.Debug("crop skipped", "section", sectionID, "width", img.Bounds().Dx())
		}
	}

	path := e.PathFor(sectionID)
	digest, err := writePNG(path, img)
	if err != nil {
		return model.CaptureResult{}, err
	}

	size := img.Bounds().Size()
	e.logger.Info("screenshot saved", "section", sectionID, "path", path, "width", size.X, "height", size.Y)

	return model.CaptureResult{
		SectionID:  sectionID,
		Path:       path,
		Width:      size.X,
		Height:     size.Y,
		Cropped:    cropped,
		Digest:     digest,
		Status:     model.StatusSuccess,
		CapturedAt: e.now(),
	}, nil
}

func (e *Engine) region(bounds *model.WindowBounds) (image.Rectangle, error) {
	if bounds != nil && bounds.Valid() {
		return bounds.Rect(), nil
	}
	e.logger.Warn("window bounds unavailable, capturing the full screen")
	return e.grabber.Screen()
}

func validateSectionID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidSectionID, id)
	}
	return nil
}

// writePNG encodes img and atomically replaces path with it. It returns
// the hex SHA3-256 of the written bytes.
func writePNG(path string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".docshot-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // removed by rename on success

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil { //nolint:gosec // screenshots are meant to be shared
		return "", fmt.Errorf("failed to set screenshot permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	sum := sha3.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
