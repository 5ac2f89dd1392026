package keepassx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/droidmonkey/keepassx-new/format"
	"github.com/droidmonkey/keepassx-new/streams"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("The quick brown fox jumps over the lazy dog. "), 512)

	tests := []struct {
		name  string
		codec format.CodecType
		opts  []streams.Option
	}{
		{name: "defaults", codec: format.CodecDeflate, opts: nil},
		{name: "gzip", codec: format.CodecDeflate, opts: []streams.Option{streams.WithContainerFormat(format.ContainerGzip)}},
		{name: "raw deflate", codec: format.CodecDeflate, opts: []streams.Option{streams.WithContainerFormat(format.ContainerRaw)}},
		{name: "zstd", codec: format.CodecZstd, opts: []streams.Option{streams.WithCodec(format.CodecZstd)}},
		{name: "lz4", codec: format.CodecLZ4, opts: []streams.Option{streams.WithCodec(format.CodecLZ4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !streams.CodecAvailable(tt.codec) {
				t.Skipf("codec %s not compiled into this build", tt.codec)
			}

			compressed, err := Compress(payload, tt.opts...)
			require.NoError(t, err)
			require.NotEmpty(t, compressed)
			require.Less(t, len(compressed), len(payload))

			got, err := Decompress(compressed, tt.opts...)
			require.NoError(t, err)
			require.Equal(t, payload, got)
		})
	}
}

func TestCompressDecompressSmallPayloads(t *testing.T) {
	payloads := [][]byte{
		{0x00},
		[]byte("The quick brown fox"),
		bytes.Repeat([]byte{0xab}, 300),
	}

	tests := []struct {
		name  string
		codec format.CodecType
		opts  []streams.Option
	}{
		{name: "defaults", codec: format.CodecDeflate, opts: nil},
		{name: "raw deflate", codec: format.CodecDeflate, opts: []streams.Option{streams.WithContainerFormat(format.ContainerRaw)}},
		{name: "zstd", codec: format.CodecZstd, opts: []streams.Option{streams.WithCodec(format.CodecZstd)}},
		{name: "lz4", codec: format.CodecLZ4, opts: []streams.Option{streams.WithCodec(format.CodecLZ4)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !streams.CodecAvailable(tt.codec) {
				t.Skipf("codec %s not compiled into this build", tt.codec)
			}

			for _, payload := range payloads {
				compressed, err := Compress(payload, tt.opts...)
				require.NoError(t, err)
				require.NotEmpty(t, compressed)

				got, err := Decompress(compressed, tt.opts...)
				require.NoError(t, err)
				require.Equal(t, payload, got)
			}
		})
	}
}

func TestCompressEmptyPayload(t *testing.T) {
	compressed, err := Compress(nil)
	require.NoError(t, err)
	require.Empty(t, compressed)

	got, err := Decompress(compressed)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCompressInvalidOptions(t *testing.T) {
	_, err := Compress([]byte("x"), streams.WithLevel(42))
	require.ErrorIs(t, err, streams.ErrInvalidLevel)

	_, err = Decompress([]byte("x"), streams.WithCodec(format.CodecType(0x7f)))
	require.ErrorIs(t, err, streams.ErrUnknownCodec)
}

func TestDecompressMismatchedContainer(t *testing.T) {
	compressed, err := Compress([]byte("payload"),
		streams.WithContainerFormat(format.ContainerGzip))
	require.NoError(t, err)

	// zlib framing expected, gzip stream supplied: the header check fails.
	_, err = Decompress(compressed)
	require.Error(t, err)
}

func TestDecompressGarbage(t *testing.T) {
	_, err := Decompress([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01})
	require.Error(t, err)
}
