// Package compression wraps and unwraps encoded payloads with a selectable
// streaming compressor.
package compression

import (
	"bytes"
	"io"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Algorithm names a compression algorithm.
type Algorithm string

const (
	None  Algorithm = "none"
	Gzip  Algorithm = "gzip"
	Bzip2 Algorithm = "bzip2"
	// LZMA writes the .xz container, the default framing of LZMA tooling.
	LZMA Algorithm = "lzma"
)

// ErrUnsupportedAlgorithm is returned for names outside the supported set.
var ErrUnsupportedAlgorithm = errors.New("unsupported compression algorithm")

// Algorithms lists every supported algorithm.
func Algorithms() []Algorithm { return []Algorithm{None, Gzip, Bzip2, LZMA} }

// ParseAlgorithm maps a name to an Algorithm; "" means None.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return None, nil
	case None, Gzip, Bzip2, LZMA:
		return a, nil
	case "xz":
		return LZMA, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedAlgorithm, "%q", s)
	}
}

// FromExtension maps a file extension (with leading dot) to the algorithm that
// produced it.
func FromExtension(ext string) (Algorithm, bool) {
	switch strings.ToLower(ext) {
	case ".gz", ".gzip":
		return Gzip, true
	case ".bz2":
		return Bzip2, true
	case ".xz", ".lzma":
		return LZMA, true
	}
	return None, false
}

// Compress returns data compressed with algo. None returns data unchanged.
func Compress(data []byte, algo Algorithm) ([]byte, error) {
	if algo == None || algo == "" {
		return data, nil
	}
	var buf bytes.Buffer
	var (
		w   io.WriteCloser
		err error
	)
	switch algo {
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Bzip2:
		w, err = bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	case LZMA:
		w, err = xz.NewWriter(&buf)
	default:
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", algo)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: new writer", algo)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, "%s: write", algo)
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrapf(err, "%s: close", algo)
	}
	return buf.Bytes(), nil
}

// Decompress inverts Compress. None returns data unchanged.
func Decompress(data []byte, algo Algorithm) ([]byte, error) {
	if algo == None || algo == "" {
		return data, nil
	}
	var (
		r   io.Reader
		err error
	)
	src := bytes.NewReader(data)
	switch algo {
	case Gzip:
		var gr *gzip.Reader
		gr, err = gzip.NewReader(src)
		if err == nil {
			defer gr.Close()
			r = gr
		}
	case Bzip2:
		var br *bzip2.Reader
		br, err = bzip2.NewReader(src, nil)
		if err == nil {
			defer br.Close()
			r = br
		}
	case LZMA:
		r, err = xz.NewReader(src)
	default:
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", algo)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: new reader", algo)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read", algo)
	}
	return out, nil
}
