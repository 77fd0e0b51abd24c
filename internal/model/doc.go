// Package model defines the core data structures shared by docshot's
// components.
//
// This package contains the following main types:
//   - Section: one entry of the navigation registry
//   - Element: a UI element reported by the target's introspection feed
//   - WindowBounds: the discovered geometry of the target window
//   - CaptureResult: the outcome of capturing a single section
//   - RunReport: the summary of a complete capture run
//
// Keeping these types in one leaf package lets the capture, navigation,
// report and database packages share them without import cycles. All types
// are serializable to JSON for report output and history storage.
package model
