// Package snapshot loads the language-track snapshot a video's index is
// built from.
//
// Snapshots arrive as the JSON the widget RPC returns, as YAML fixtures, or
// as rows in a SQLite export produced by the server. The SQLite export is
// opened read-only; this package never writes to it.
package snapshot
