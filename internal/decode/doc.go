// Package decode provides a pluggable interface for verifying that a styled
// symbol still scans, with a default implementation that can be enabled via
// build tags.
//
// The default build has no concrete backend to avoid adding heavyweight
// dependencies implicitly. Enable the gozxing-backed decoder with the build
// tag `decode_gozxing`.
//
// Example:
//
//	go build -tags=decode_gozxing ./...
package decode
