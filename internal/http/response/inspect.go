package response

import (
	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/forestclient/internal/http/charset"
	"github.com/GriffinCanCode/forestclient/internal/http/convert"
)

// Inspection compares what the server declared with what the body looks like
type Inspection struct {
	DeclaredType     string
	DeclaredEncoding string
	DetectedType     string
	DetectedEncoding string
	Extension        string
	Decision         Decision
}

// Inspect sniffs the body bytes. It materializes the body, so callers
// streaming large downloads should not use it.
func (r *Response) Inspect() (Inspection, error) {
	in := Inspection{
		DeclaredEncoding: r.contentEncoding,
		Decision:         r.decision,
	}
	if r.contentType != nil {
		in.DeclaredType = r.contentType.MediaType()
	}
	if !r.ReceivedData() {
		return in, nil
	}

	data, err := r.Bytes()
	if err != nil {
		return in, err
	}
	if len(data) == 0 {
		return in, nil
	}
	if r.isGzip {
		if plain, err := decompress(data); err == nil {
			data = plain
		}
	}

	m := mimetype.Detect(data)
	in.DetectedType = m.String()
	in.Extension = m.Extension()
	if enc, ok := charset.Detect(data); ok {
		in.DetectedEncoding = enc
	}
	return in, nil
}

// Decode unmarshals the decoded content into v using the format implied by
// the content type
func (r *Response) Decode(v interface{}) error {
	text, err := r.ReadContent()
	if err != nil {
		return err
	}
	return convert.Decode(r.contentType, []byte(text), v)
}
