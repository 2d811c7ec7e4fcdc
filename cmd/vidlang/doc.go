// Package main hosts the vidlang CLI entrypoint and command graph.
//
// The Cobra-based command tree loads a video's language snapshot from a JSON
// or YAML file or a SQLite export, builds the language index, and exposes its
// lookups and the start dialog's suggestions from the terminal. It centralizes
// configuration resolution, snapshot source selection, and structured logging
// setup so subcommands can focus on presentation.
package main
