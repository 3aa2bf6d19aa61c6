// Package contenttype parses Content-Type header values and classifies them
// into string-readable and binary-stream media types.
package contenttype

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Well-known media types
const (
	ApplicationJSON        = "application/json"
	ApplicationXML         = "application/xml"
	ApplicationOctetStream = "application/octet-stream"
	ApplicationForm        = "application/x-www-form-urlencoded"
	ApplicationJavaScript  = "application/javascript"
	ApplicationYAML        = "application/yaml"
	ApplicationTOML        = "application/toml"
	TextPlain              = "text/plain"
	TextHTML               = "text/html"
)

// ContentType is a parsed media type plus its parameters
type ContentType struct {
	raw     string
	Type    string
	SubType string
	Params  map[string]string
}

// Parse parses a header value. It never fails: a value that is not a valid
// media type keeps whatever type/subtype could be split off and yields an
// empty ContentType when nothing is left.
func Parse(value string) *ContentType {
	ct := &ContentType{raw: value, Params: map[string]string{}}
	value = strings.TrimSpace(value)
	if value == "" {
		return ct
	}

	mediaType, params, err := mime.ParseMediaType(value)
	if err != nil {
		mediaType, params = splitLoose(value)
	}
	for k, v := range params {
		ct.Params[strings.ToLower(k)] = v
	}

	mediaType = strings.ToLower(mediaType)
	if i := strings.IndexByte(mediaType, '/'); i >= 0 {
		ct.Type = strings.TrimSpace(mediaType[:i])
		ct.SubType = strings.TrimSpace(mediaType[i+1:])
	} else {
		ct.Type = strings.TrimSpace(mediaType)
	}
	return ct
}

// splitLoose handles values mime.ParseMediaType rejects, e.g. duplicated or
// malformed parameters
func splitLoose(value string) (string, map[string]string) {
	parts := strings.Split(value, ";")
	params := make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if _, dup := params[k]; dup || k == "" {
			continue
		}
		params[k] = strings.Trim(strings.TrimSpace(v), `"`)
	}
	return strings.TrimSpace(parts[0]), params
}

// Raw returns the header value as received
func (c *ContentType) Raw() string {
	return c.raw
}

// MediaType returns "type/subtype" without parameters
func (c *ContentType) MediaType() string {
	if c == nil {
		return ""
	}
	if c.SubType == "" {
		return c.Type
	}
	return c.Type + "/" + c.SubType
}

// String returns the media type
func (c *ContentType) String() string {
	return c.MediaType()
}

// Charset returns the charset parameter, or "" when absent
func (c *ContentType) Charset() string {
	return strings.TrimSpace(c.Params["charset"])
}

// Param returns a parameter value by case-insensitive name
func (c *ContentType) Param(name string) string {
	return c.Params[strings.ToLower(name)]
}

// IsEmpty reports whether no media type was declared
func (c *ContentType) IsEmpty() bool {
	return c == nil || c.Type == ""
}

// IsJSON matches application/json and any +json suffix
func (c *ContentType) IsJSON() bool {
	return c.SubType == "json" || c.SubType == "x-ndjson" || strings.HasSuffix(c.SubType, "+json")
}

// IsXML matches application/xml, text/xml and any +xml suffix
func (c *ContentType) IsXML() bool {
	return c.SubType == "xml" || strings.HasSuffix(c.SubType, "+xml")
}

// IsYAML matches the registered and legacy YAML types
func (c *ContentType) IsYAML() bool {
	return c.SubType == "yaml" || c.SubType == "x-yaml" || strings.HasSuffix(c.SubType, "+yaml")
}

// IsTOML matches application/toml
func (c *ContentType) IsTOML() bool {
	return c.SubType == "toml"
}

func (c *ContentType) IsText() bool {
	return c.Type == "text"
}

func (c *ContentType) IsHTML() bool {
	return c.Type == "text" && c.SubType == "html"
}

func (c *ContentType) IsForm() bool {
	return c.MediaType() == ApplicationForm
}

func (c *ContentType) IsJavaScript() bool {
	return c.SubType == "javascript" || c.SubType == "x-javascript" || c.SubType == "ecmascript"
}

func (c *ContentType) IsMultipart() bool {
	return c.Type == "multipart"
}

func (c *ContentType) IsStream() bool {
	return c.MediaType() == ApplicationOctetStream
}

func (c *ContentType) IsImage() bool {
	return c.Type == "image"
}

func (c *ContentType) IsAudio() bool {
	return c.Type == "audio"
}

func (c *ContentType) IsVideo() bool {
	return c.Type == "video"
}

func (c *ContentType) IsFont() bool {
	return c.Type == "font"
}

// CanReadAsString reports whether the body is text that can be decoded
// with a charset
func (c *ContentType) CanReadAsString() bool {
	if c.IsEmpty() {
		return false
	}
	if c.IsText() || c.IsJSON() || c.IsXML() || c.IsYAML() || c.IsTOML() || c.IsForm() || c.IsJavaScript() {
		return true
	}
	known, text := c.lookup()
	return known && text
}

// CanReadAsBinaryStream reports whether the body is binary and should be
// left on the stream instead of being decoded
func (c *ContentType) CanReadAsBinaryStream() bool {
	if c.IsEmpty() {
		return false
	}
	if c.IsStream() || c.IsImage() || c.IsAudio() || c.IsVideo() || c.IsFont() {
		return true
	}
	if c.CanReadAsString() || c.IsMultipart() {
		return false
	}
	known, text := c.lookup()
	return known && !text
}

// lookup resolves the media type in the mimetype tree; text reports whether
// text/plain is among its ancestors
func (c *ContentType) lookup() (known bool, text bool) {
	m := mimetype.Lookup(c.MediaType())
	if m == nil {
		return false, false
	}
	for p := m; p != nil; p = p.Parent() {
		if p.Is(TextPlain) {
			return true, true
		}
	}
	return true, false
}
