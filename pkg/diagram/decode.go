package diagram

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	errs "github.com/matzehuels/blueprint/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// maxDocumentSize bounds how much of a reader Decode consumes.
const maxDocumentSize = 4 << 20

var validate = validator.New()

// FormatFromPath picks the format from a file extension. Unknown extensions
// are read as YAML, which also accepts JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// ParseFormat validates a format name. Content types such as
// "application/json" and "application/toml" are accepted too.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimPrefix(s, "application/")
	s = strings.TrimPrefix(s, "text/")
	s = strings.TrimPrefix(s, "x-")
	switch s {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported document format %q", s)
}

// Decode reads one document and validates it.
func Decode(r io.Reader, format Format) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "read document")
	}
	if len(data) > maxDocumentSize {
		return nil, errs.Malformed("document larger than %d bytes", maxDocumentSize)
	}
	return DecodeBytes(data, format)
}

// DecodeBytes is Decode for in-memory input.
func DecodeBytes(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML, so one decoder serves both.
		dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Validator(validate))
		if err := dec.Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "decode %s", format)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "decode toml")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadFile decodes the document at path, choosing the format by extension.
func ReadFile(path string) (*Document, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeBytes(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Validate checks the struct-level rules. Layout-level rules such as
// duplicate names are enforced by the layout packages.
func (d *Document) Validate() error {
	if err := validate.Struct(d); err != nil {
		return errs.Wrap(errs.ErrCodeMalformedInput, err, "invalid %s document", kindOrDoc(d.Kind))
	}
	return nil
}

func kindOrDoc(k Kind) string {
	if k == "" {
		return "diagram"
	}
	return string(k)
}
