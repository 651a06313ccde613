package fs

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// SourceReader reads a source file as one line-joined string.
type SourceReader struct {
	enc encoding.Encoding
}

// NewSourceReader creates a reader decoding files from the named charset
// (any WHATWG label such as "utf-8", "shift_jis" or "latin1"). An empty
// label means UTF-8.
func NewSourceReader(charset string) (*SourceReader, error) {
	if charset == "" {
		charset = "utf-8"
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported source encoding %q: %w", charset, err)
	}
	return &SourceReader{enc: enc}, nil
}

// Read decodes the file at path and joins its lines with the line
// terminators removed. Tokens on either side of a line break end up
// adjacent.
func (r *SourceReader) Read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return r.Decode(f)
}

// lineBreaks removes line terminators. A lone carriage return is kept.
var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "")

// Decode is Read for an already open stream.
func (r *SourceReader) Decode(src io.Reader) (string, error) {
	data, err := io.ReadAll(transform.NewReader(src, r.enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return lineBreaks.Replace(string(data)), nil
}
