// Package keepassx provides convenient top-level wrappers around the
// streams package for one-shot compression and decompression of byte
// slices.
//
// The streams package is the real surface: a sequential Compressor adapter
// over arbitrary endpoints (files, pipes, in-memory buffers) with
// incremental reads, writes and sync flushes. The helpers here cover the
// common case of a payload that is already fully in memory.
//
// Compressing and decompressing a payload with the defaults (DEFLATE codec,
// zlib framing, level 6):
//
//	compressed, _ := keepassx.Compress(payload)
//	original, _ := keepassx.Decompress(compressed)
//
// Selecting codec and level:
//
//	compressed, _ := keepassx.Compress(payload,
//	    streams.WithCodec(format.CodecZstd),
//	    streams.WithLevel(19),
//	)
//
// For streaming use, construct a streams.Compressor directly over an
// endpoint.Endpoint.
package keepassx

import (
	"fmt"
	"io"

	"github.com/droidmonkey/keepassx-new/endpoint"
	"github.com/droidmonkey/keepassx-new/streams"
)

// Compress compresses data in one shot and returns the compressed stream,
// including the selected container's header and trailer. Options are the
// streams.Compressor construction options.
func Compress(data []byte, opts ...streams.Option) ([]byte, error) {
	sink := endpoint.NewBuffer()
	c, err := streams.NewCompressor(sink, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Open(endpoint.WriteOnly); err != nil {
		return nil, err
	}
	if _, err := c.Write(data); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.Close(); err != nil {
		return nil, err
	}

	return sink.Bytes(), nil
}

// Decompress decompresses a complete compressed stream in one shot. The
// options must match the ones the stream was compressed with.
func Decompress(data []byte, opts ...streams.Option) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	source := endpoint.NewBufferBytes(data)
	c, err := streams.NewCompressor(source, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Open(endpoint.ReadOnly); err != nil {
		return nil, err
	}
	defer func() { _ = c.Close() }()

	out, err := io.ReadAll(c)
	if err != nil {
		return nil, fmt.Errorf("decompressing payload: %w", err)
	}

	return out, nil
}
