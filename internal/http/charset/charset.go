// Package charset resolves charset names against the IANA registry and
// decodes response bytes to text.
//
// Resolution failures never surface as errors: Validate reports them with a
// false flag and Decode falls back to UTF-8.
package charset

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	htmlcharset "golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Default is used whenever no usable charset is known
const Default = "UTF-8"

// minConfidence is the lowest chardet score Detect accepts
const minConfidence = 50

// Validate checks token against the registry. It returns the canonical name
// and true only when the token is a registered charset spelled exactly as
// its canonical name; anything else means "leave the encoding unset".
func Validate(token string) (string, bool) {
	canonical, ok := Canonical(token)
	if !ok || canonical != token {
		return "", false
	}
	return canonical, true
}

// foldedNames lists registered charsets that x/text resolves to a superset
// encoding with a different name (GB2312 decodes as GBK); they keep their own
// canonical name
var foldedNames = map[string]string{
	"gb2312": "GB2312",
}

// Canonical returns the registry's canonical name for a charset label
func Canonical(label string) (string, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", false
	}
	if name, ok := foldedNames[strings.ToLower(label)]; ok {
		return name, true
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil || enc == nil {
		return "", false
	}
	// prefer the MIME name ("ISO-8859-1") over the registry title
	// ("ISO_8859-1:1987") when one exists
	if name, err := ianaindex.MIME.Name(enc); err == nil && name != "" {
		return name, true
	}
	name, err := ianaindex.IANA.Name(enc)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// Supported reports whether data can be decoded with name
func Supported(name string) bool {
	return lookup(name) != nil
}

// Decode converts data to a string using the named charset, falling back to
// UTF-8 when the name is empty, unknown, or decoding fails
func Decode(data []byte, name string) string {
	enc := lookup(name)
	if enc == nil || enc == unicode.UTF8 {
		return string(data)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(out)
}

// lookup finds an encoding by IANA name first, then by WHATWG label
func lookup(name string) encoding.Encoding {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc
	}
	if enc, _ := htmlcharset.Lookup(name); enc != nil {
		return enc
	}
	return nil
}

// Detect guesses the charset of data. It returns false when data is empty
// or the detector is not confident enough.
func Detect(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	if utf8.Valid(data) && isASCIIOrUTF8Text(data) {
		return Default, true
	}
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Confidence < minConfidence {
		return "", false
	}
	if name, ok := Canonical(result.Charset); ok {
		return name, true
	}
	return result.Charset, true
}

// isASCIIOrUTF8Text rejects control bytes that would indicate binary data
func isASCIIOrUTF8Text(data []byte) bool {
	for _, b := range data {
		if b < 0x09 || (b > 0x0d && b < 0x20 && b != 0x1b) {
			return false
		}
	}
	return true
}
