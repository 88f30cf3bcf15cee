//go:build gdext_unchecked

package binding

// Checked reports whether resolution compares the stored key with the
// requested one. Build with -tags gdext_unchecked to skip the comparison.
const Checked = false
