// Package testsupport holds helpers shared by package tests: temp-dir
// configs, JSON snapshot files, and SQLite exports built from the embedded
// schema.
package testsupport
