package format

type (
	CodecType       uint8
	ContainerFormat uint8
)

const (
	CodecDeflate CodecType = 0x1 // CodecDeflate selects the DEFLATE-family backend.
	CodecZstd    CodecType = 0x2 // CodecZstd selects the Zstandard frame-streaming backend.
	CodecLZ4     CodecType = 0x3 // CodecLZ4 selects the LZ4 frame-streaming backend.

	ContainerZlib ContainerFormat = 0x1 // ContainerZlib wraps DEFLATE data with a zlib header and checksum.
	ContainerGzip ContainerFormat = 0x2 // ContainerGzip wraps DEFLATE data with a gzip header and trailer.
	ContainerRaw  ContainerFormat = 0x3 // ContainerRaw emits raw DEFLATE data with no header or trailer.
)

func (c CodecType) String() string {
	switch c {
	case CodecDeflate:
		return "Deflate"
	case CodecZstd:
		return "Zstd"
	case CodecLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (f ContainerFormat) String() string {
	switch f {
	case ContainerZlib:
		return "Zlib"
	case ContainerGzip:
		return "Gzip"
	case ContainerRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Compression level bounds per codec. Levels outside the codec's range are
// rejected when the stream adapter is constructed.
const (
	MinDeflateLevel = 0 // store only
	MaxDeflateLevel = 9
	MinZstdLevel    = 1
	MaxZstdLevel    = 22
	MinLZ4Level     = 0 // fastest mode
	MaxLZ4Level     = 9

	DefaultDeflateLevel = 6
	DefaultZstdLevel    = 3
	DefaultLZ4Level     = 0
)

// Spec describes one compression stream configuration: which codec to run,
// the container framing (DEFLATE family only) and the compression level.
// A Spec is captured at stream construction time and is immutable afterwards.
type Spec struct {
	Codec     CodecType
	Container ContainerFormat
	Level     int
}

// DefaultLevel returns the default compression level for the codec.
func (c CodecType) DefaultLevel() int {
	switch c {
	case CodecZstd:
		return DefaultZstdLevel
	case CodecLZ4:
		return DefaultLZ4Level
	default:
		return DefaultDeflateLevel
	}
}

// LevelBounds returns the inclusive valid compression level range for the codec.
func (c CodecType) LevelBounds() (minLevel, maxLevel int) {
	switch c {
	case CodecZstd:
		return MinZstdLevel, MaxZstdLevel
	case CodecLZ4:
		return MinLZ4Level, MaxLZ4Level
	default:
		return MinDeflateLevel, MaxDeflateLevel
	}
}

// ValidLevel reports whether level is within the codec's supported range.
func (c CodecType) ValidLevel(level int) bool {
	minLevel, maxLevel := c.LevelBounds()
	return level >= minLevel && level <= maxLevel
}
