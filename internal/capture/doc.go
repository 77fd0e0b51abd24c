// Package capture grabs screen regions, applies the sidebar/title crop and
// persists the result as PNG.
//
// Each section is written to <output_dir>/<section_id>.png. Files are
// written to a temporary name and renamed into place, so an existing
// screenshot is either kept intact or fully replaced.
package capture
