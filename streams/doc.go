// Package streams provides a transparent compression/decompression adapter
// over sequential byte endpoints.
//
// A Compressor wraps an endpoint.Endpoint (file, pipe, in-memory buffer).
// Bytes written through the Compressor are compressed on the fly before they
// reach the endpoint; bytes read through it are decompressed as the raw
// bytes arrive. The stream is strictly sequential — no seeking — and each
// open session runs in exactly one direction.
//
// # Codecs and framing
//
// Three codec backends are available, selected with WithCodec:
//
//   - format.CodecDeflate (default): the DEFLATE family, with three
//     container framings chosen by WithContainerFormat — zlib wrapped
//     (default, smallest overhead), gzip wrapped (compatible with the gzip
//     file format) and raw (no header or trailer, the framing used inside
//     ZIP data blocks). Levels 0 (store) through 9.
//   - format.CodecZstd: Zstandard frame streaming, levels 1-22. The default
//     build uses the pure Go implementation; the zstd_cgo build tag selects
//     the libzstd-backed one, and the nozstd tag removes the codec entirely,
//     leaving a stub that fails cleanly on Open.
//   - format.CodecLZ4: the LZ4 frame format, levels 0 (fast) through 9.
//
// # Usage
//
// Writing compressed data to a file:
//
//	ep := endpoint.NewFile("data.gz")
//	c, _ := streams.NewCompressor(ep,
//	    streams.WithContainerFormat(format.ContainerGzip),
//	    streams.WithLevel(6),
//	)
//	if err := c.Open(endpoint.WriteOnly); err != nil { ... }
//	c.Write([]byte("The quick brown fox"))
//	c.Close()
//
// Reading it back:
//
//	c, _ := streams.NewCompressor(endpoint.NewFile("data.gz"),
//	    streams.WithContainerFormat(format.ContainerGzip),
//	)
//	if err := c.Open(endpoint.ReadOnly); err != nil { ... }
//	buf := make([]byte, 64)
//	n, _ := c.Read(buf)
//	c.Close()
//
// # Flush and stream boundaries
//
// Flush forces a sync point: all pending compressed bytes reach the endpoint
// and remain decodable, while the logical stream stays open for more writes.
// Each sync point costs compression ratio, so flush when a reader on the
// other end needs the data, not habitually.
//
// Close finishes the stream. In write direction it drains the codec until
// the end mark and trailer are on the endpoint; in read direction it tears
// down decode state. Close is idempotent.
//
// When a read session reaches the end of the compressed stream, raw bytes
// that were pulled from the endpoint but belong to whatever follows the
// stream are pushed back, so a second back-to-back stream on the same
// endpoint starts exactly at its first header byte.
//
// # Errors
//
// Construction validates the codec, container and level. After Open, a
// fatal endpoint or codec failure moves the session into a sticky error
// state: every subsequent read, write and flush returns the recorded error
// until Close and a fresh Open. End of stream (io.EOF) and an entirely
// empty source (a zero-byte read with nil error) are not errors.
package streams
