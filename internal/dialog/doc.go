// Package dialog drives the subtitle start dialog from a video's language index.
//
// A Session lists the languages a video has, orders the versions available in
// each, and preselects a sensible reference language when the user starts a
// translation. Sessions carry a random ID so their log lines can be grouped.
package dialog
