package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome of one section attempt.
type Status int

const (
	// StatusSuccess means the section was navigated to and captured.
	StatusSuccess Status = iota

	// StatusFailed means navigation or capture did not complete; no
	// file was written for the section.
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "success":
		*s = StatusSuccess
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown capture status %q", string(text))
	}
	return nil
}

// CaptureResult records the outcome of a single section.
// It is created once and never mutated afterwards.
type CaptureResult struct {
	// SectionID identifies the section this result belongs to.
	SectionID string `json:"sectionId"`

	// Path is the written PNG file. Empty for failed sections.
	Path string `json:"path,omitempty"`

	// Width and Height are the final (post-crop) image dimensions.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Cropped reports whether the sidebar/title crop was applied.
	Cropped bool `json:"cropped,omitempty"`

	// Digest is the hex SHA3-256 of the written file.
	Digest string `json:"digest,omitempty"`

	// Status is the outcome.
	Status Status `json:"status"`

	// Reason explains a failure.
	Reason string `json:"reason,omitempty"`

	// CapturedAt is when the result was produced.
	CapturedAt time.Time `json:"capturedAt"`
}

// Succeeded reports whether the result represents a written capture.
func (r CaptureResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// NewFailedResult returns a failed result for the section.
func NewFailedResult(sectionID, reason string) CaptureResult {
	return CaptureResult{
		SectionID:  sectionID,
		Status:     StatusFailed,
		Reason:     reason,
		CapturedAt: time.Now(),
	}
}
