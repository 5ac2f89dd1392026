package streams

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/droidmonkey/keepassx-new/endpoint"
	"github.com/droidmonkey/keepassx-new/format"
)

func benchSpecs() []struct {
	name  string
	codec format.CodecType
	opts  []Option
} {
	return []struct {
		name  string
		codec format.CodecType
		opts  []Option
	}{
		{name: "deflate_zlib", codec: format.CodecDeflate, opts: nil},
		{name: "deflate_gzip", codec: format.CodecDeflate, opts: []Option{WithContainerFormat(format.ContainerGzip)}},
		{name: "zstd", codec: format.CodecZstd, opts: []Option{WithCodec(format.CodecZstd)}},
		{name: "lz4", codec: format.CodecLZ4, opts: []Option{WithCodec(format.CodecLZ4)}},
	}
}

func BenchmarkCompressorWrite(b *testing.B) {
	payload := testPayload(256 * 1024)

	for _, spec := range benchSpecs() {
		if !CodecAvailable(spec.codec) {
			continue
		}
		b.Run(fmt.Sprintf("%s/256KB", spec.name), func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				sink := endpoint.NewBuffer()
				c, err := NewCompressor(sink, spec.opts...)
				if err != nil {
					b.Fatal(err)
				}
				if err := c.Open(endpoint.WriteOnly); err != nil {
					b.Fatal(err)
				}
				if _, err := c.Write(payload); err != nil {
					b.Fatal(err)
				}
				if err := c.Close(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompressorRead(b *testing.B) {
	payload := testPayload(256 * 1024)

	for _, spec := range benchSpecs() {
		if !CodecAvailable(spec.codec) {
			continue
		}

		sink := endpoint.NewBuffer()
		c, err := NewCompressor(sink, spec.opts...)
		if err != nil {
			b.Fatal(err)
		}
		if err := c.Open(endpoint.WriteOnly); err != nil {
			b.Fatal(err)
		}
		if _, err := c.Write(payload); err != nil {
			b.Fatal(err)
		}
		if err := c.Close(); err != nil {
			b.Fatal(err)
		}
		compressed := sink.Bytes()

		b.Run(fmt.Sprintf("%s/256KB", spec.name), func(b *testing.B) {
			buf := make([]byte, 64*1024)
			b.SetBytes(int64(len(payload)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				src := endpoint.NewBufferBytes(compressed)
				d, err := NewCompressor(src, spec.opts...)
				if err != nil {
					b.Fatal(err)
				}
				if err := d.Open(endpoint.ReadOnly); err != nil {
					b.Fatal(err)
				}
				for {
					_, rerr := d.Read(buf)
					if errors.Is(rerr, io.EOF) {
						break
					}
					if rerr != nil {
						b.Fatal(rerr)
					}
				}
				if err := d.Close(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
