// Package config provides configuration structures and utilities for docshot.
// It defines how the target application is launched, how its window is
// found, timing between automation steps, the crop transform and report
// output preferences.
package config
