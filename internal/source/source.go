// Package source reads and writes animation sources.
//
// Two encodings are understood:
//
//   - JSON: an array of frames, each an array of row strings.
//   - JS: the converter's script output, "var name = [['...',],];".
//
// Either may be wrapped in gzip (.gz) or zstd (.zst).
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/asciiplay/internal/anim"
)

var ErrUnknownFormat = errors.New("source: unknown format")

type Format int

const (
	FormatAuto Format = iota
	FormatJSON
	FormatJS
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatJS:
		return "js"
	}
	return "auto"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "js", "javascript":
		return FormatJS, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type compression int

const (
	compressNone compression = iota
	compressGzip
	compressZstd
)

// splitExt returns the encoding implied by a file name, looking through a
// compression suffix.
func splitExt(path string) (Format, compression) {
	name := strings.ToLower(filepath.Base(path))
	c := compressNone
	switch {
	case strings.HasSuffix(name, ".gz"):
		c = compressGzip
		name = strings.TrimSuffix(name, ".gz")
	case strings.HasSuffix(name, ".zst"):
		c = compressZstd
		name = strings.TrimSuffix(name, ".zst")
	}

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, c
	case ".js":
		return FormatJS, c
	}
	return FormatAuto, c
}

// Load reads and validates the source at path.
func Load(path string) (anim.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format, c := splitExt(path)

	var r io.Reader = f
	switch c {
	case compressGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case compressZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	src, err := Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return src, nil
}

// Decode parses a source. FormatAuto sniffs the first non-space byte.
func Decode(r io.Reader, format Format) (anim.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if format == FormatAuto {
		format = sniff(data)
	}

	switch format {
	case FormatJSON:
		var src anim.Source
		if err := json.Unmarshal(data, &src); err != nil {
			return nil, fmt.Errorf("source: json: %w", err)
		}
		return src, nil
	case FormatJS:
		return parseJS(data)
	}
	return nil, ErrUnknownFormat
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case len(trimmed) == 0:
		return FormatAuto
	case trimmed[0] == '[':
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("var ")),
		bytes.HasPrefix(trimmed, []byte("let ")),
		bytes.HasPrefix(trimmed, []byte("const ")):
		return FormatJS
	}
	return FormatAuto
}

// WriteJSON encodes src as a JSON array of frames.
func WriteJSON(w io.Writer, src anim.Source) error {
	return json.NewEncoder(w).Encode(src)
}

// WriteJS writes src the way the converter script does: one frame per line,
// single-quoted rows with trailing commas.
func WriteJS(w io.Writer, name string, src anim.Source) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "var %s = [\n", name)
	for _, frame := range src {
		bw.WriteByte('[')
		for _, row := range frame {
			bw.WriteByte('\'')
			bw.WriteString(escapeJS(string(row)))
			bw.WriteString("',")
		}
		bw.WriteString("],\n")
	}
	bw.WriteString("];\n")
	return bw.Flush()
}

// Save writes src to path, choosing the encoding and compression from the
// file name. Unknown extensions are written as JSON.
func Save(path, name string, src anim.Source) error {
	format, c := splitExt(path)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var closer io.Closer
	switch c {
	case compressGzip:
		gz := gzip.NewWriter(f)
		w, closer = gz, gz
	case compressZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		w, closer = zw, zw
	}

	if format == FormatJS {
		err = WriteJS(w, name, src)
	} else {
		err = WriteJSON(w, src)
	}
	if err != nil {
		return err
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}

func escapeJS(s string) string {
	if !strings.ContainsAny(s, "'\\\n\r") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return r.Replace(s)
}
