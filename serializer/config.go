// Package serializer implements the write side of the runtime (component
// G): full-rewrite ("compress") and incremental ("append") modes, parallel
// field-chunk writes, and the fix/unfix lifecycle around them.
package serializer

// Options configures one write pass.
type Options struct {
	// CompressPayloads is accepted but read by neither Compress nor Append:
	// field chunk payloads are always written uncompressed. It is unrelated
	// to the runtime's own ID-reissue "compress" mode (spec.md §4.6) - see
	// DESIGN.md.
	CompressPayloads bool

	// CopyWindow is the buffer size Append uses to carry the prior file's
	// bytes forward into the rewritten copy. Zero means defaultCopyWindow.
	CopyWindow int
}

const defaultCopyWindow = 1 << 20
