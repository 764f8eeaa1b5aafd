// Package scanner finds full-width spaces (U+3000) in the immediate entries of a set of directories.
//
// A scan is built from a validated Request. Every entry is read and checked independently with bounded
// concurrency; findings and per-entry failures are collected into a Result once every read has finished.
package scanner
