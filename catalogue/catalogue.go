// Package catalogue decodes study catalogues into studyplan records.
//
// Four formats are understood:
//
//	text  one record per line: "name prereq1 prereq2 ..."; '#' starts a comment line
//	yaml  modules: [{name: A, requires: [B, C]}]
//	hcl   module "A" { requires = ["B", "C"] }
//	json  {"modules": [{"name": "A", "requires": ["B", "C"]}]}, comments allowed
package catalogue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/meikuraledutech/studyplan"
)

// Format names a catalogue encoding.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("catalogue: unknown format")

// ParseFormat validates a user supplied format name. The empty string means
// "detect from the file extension" and is returned as is.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText, FormatYAML, FormatHCL, FormatJSON:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath guesses the format from the file extension, falling back to text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatText
	}
}

// Source is a RecordSource backed by a resource that must be closed.
type Source interface {
	studyplan.RecordSource
	io.Closer
}

// Open opens the catalogue at path. An empty format is detected from the
// extension. Text catalogues are streamed; the other formats are decoded
// up front.
func Open(path string, format Format) (Source, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatFromPath(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalogue: open %s: %w", path, err)
	}

	if format == FormatText {
		return &fileSource{Reader: NewReader(f), file: f}, nil
	}
	defer f.Close()

	src, err := Decode(f, format, path)
	if err != nil {
		return nil, err
	}
	return nopCloser{src}, nil
}

// Decode reads a whole catalogue from r. name is used in diagnostics only.
// There is no path to detect the format from, so an empty format means text.
func Decode(r io.Reader, format Format, name string) (studyplan.RecordSource, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if format == FormatText || format == "" {
		return NewReader(r), nil
	}

	var records []studyplan.Record
	switch format {
	case FormatYAML:
		records, err = DecodeYAML(r)
	case FormatHCL, FormatJSON:
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, fmt.Errorf("catalogue: read %s: %w", name, err)
		}
		if format == FormatHCL {
			records, err = DecodeHCL(buf.Bytes(), name)
		} else {
			records, err = DecodeJSON(buf.Bytes())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("catalogue: %s: %w", name, err)
	}
	return studyplan.Records(records), nil
}

type fileSource struct {
	*Reader
	file *os.File
}

func (s *fileSource) Close() error {
	return s.file.Close()
}

type nopCloser struct {
	studyplan.RecordSource
}

func (nopCloser) Close() error { return nil }
