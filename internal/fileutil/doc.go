// Package fileutil serializes access to small credential files.
//
// Every helper takes a per-path lock, so a reader never sees a file that
// WriteFileAtomic is still rewriting in place.
package fileutil
