package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/docshot/internal/model"
)

var (
	// ErrElementNotFound is returned when a test id is absent from the feed.
	ErrElementNotFound = errors.New("element not found in telemetry")

	// ErrFeedUnavailable is returned when the feed file is missing.
	ErrFeedUnavailable = errors.New("telemetry feed unavailable")
)

// DefaultFileName is the feed file the showcase writes in its working directory.
const DefaultFileName = "telemetry.json"

// Snapshot is one parsed copy of the feed.
type Snapshot struct {
	States   map[string]string `json:"states"`
	Events   []string          `json:"events"`
	Elements []model.Element   `json:"elements"`
}

// Element returns the visible element with the given test id.
func (s *Snapshot) Element(testID string) (model.Element, error) {
	for _, e := range s.Elements {
		if e.TestID == testID && e.Visible() {
			return e, nil
		}
	}
	return model.Element{}, fmt.Errorf("%w: %s", ErrElementNotFound, testID)
}

// State returns a state value and whether it was present.
func (s *Snapshot) State(key string) (string, bool) {
	v, ok := s.States[key]
	return v, ok
}

// Feed resolves navigation tokens to element bounds.
type Feed interface {
	Resolve(ctx context.Context, token string) (model.Element, error)
}

// FileFeed reads the feed from a JSON file on every call.
type FileFeed struct {
	path string
}

// NewFileFeed creates a feed reading path.
func NewFileFeed(path string) *FileFeed {
	return &FileFeed{path: filepath.Clean(path)}
}

// Path returns the feed file path.
func (f *FileFeed) Path() string {
	return f.path
}

// Read parses the current contents of the feed file.
func (f *FileFeed) Read() (*Snapshot, error) {
	data, err := os.ReadFile(f.path) //nolint:gosec // path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFeedUnavailable, f.path)
		}
		return nil, fmt.Errorf("failed to read telemetry: %w", err)
	}
	return Parse(data)
}

// Resolve implements Feed. It never waits for the element to appear.
func (f *FileFeed) Resolve(ctx context.Context, token string) (model.Element, error) {
	if err := ctx.Err(); err != nil {
		return model.Element{}, err
	}
	snap, err := f.Read()
	if err != nil {
		return model.Element{}, err
	}
	return snap.Element(token)
}

// Dir returns the directory holding the feed file.
func (f *FileFeed) Dir() string {
	return filepath.Dir(f.path)
}

// Parse decodes feed JSON. The target rewrites the file in place, so a
// torn read surfaces as a decode error and callers simply retry later.
func Parse(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse telemetry: %w", err)
	}
	if snap.States == nil {
		snap.States = make(map[string]string)
	}
	return &snap, nil
}
