// Package database stores the history of capture runs in SQLite.
//
// History is opt-in. A capture run only ever appends to it; nothing read
// from the database influences a later run. The `docshot history` command
// reads it to show past runs and how each section's screenshot changed
// (dimensions and digest) over time.
//
// The database uses modernc.org/sqlite, a CGO-free driver, and lives in a
// single file under the XDG data directory.
package database
