// Package convert decodes response content into Go values, choosing the
// format from the media type.
package convert

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/forestclient/internal/http/contenttype"
)

// Format names a supported body format
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupported is returned when no decoder matches the media type
var ErrUnsupported = errors.New("unsupported content type")

// Detect picks the decoding format for a content type. A missing content
// type is treated as JSON.
func Detect(ct *contenttype.ContentType) (Format, error) {
	switch {
	case ct.IsEmpty(), ct.IsJSON():
		return FormatJSON, nil
	case ct.IsXML():
		return FormatXML, nil
	case ct.IsYAML():
		return FormatYAML, nil
	case ct.IsTOML():
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, ct.MediaType())
	}
}

// Unmarshal decodes data in the given format into v
func Unmarshal(format Format, data []byte, v interface{}) error {
	var err error
	switch format {
	case FormatJSON:
		err = sonic.Unmarshal(data, v)
	case FormatXML:
		err = xml.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", format, err)
	}
	return nil
}

// Decode detects the format from ct and unmarshals data into v
func Decode(ct *contenttype.ContentType, data []byte, v interface{}) error {
	format, err := Detect(ct)
	if err != nil {
		return err
	}
	return Unmarshal(format, data, v)
}
