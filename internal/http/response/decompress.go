package response

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// decompress inflates gzip or zstd payloads detected by their magic bytes.
// Anything else is returned untouched, since upstreams routinely send plain
// bodies even when compression was requested.
func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	default:
		return data, nil
	}
}

// inflateStream wraps rc with a gzip or zstd reader chosen by the first
// bytes of the stream. Closing the result closes rc.
func inflateStream(rc io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReader(rc)
	// a short body yields fewer bytes and matches no magic
	magic, _ := br.Peek(len(zstdMagic))

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &inflater{Reader: zr, close: func() error {
			zr.Close()
			return rc.Close()
		}}, nil
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			rc.Close()
			return nil, err
		}
		return &inflater{Reader: dec, close: func() error {
			dec.Close()
			return rc.Close()
		}}, nil
	default:
		return &inflater{Reader: br, close: rc.Close}, nil
	}
}

type inflater struct {
	io.Reader
	close func() error
}

func (i *inflater) Close() error {
	return i.close()
}
