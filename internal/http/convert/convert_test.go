package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/forestclient/internal/http/contenttype"
)

type item struct {
	Name  string `json:"name" xml:"name" yaml:"name" toml:"name"`
	Count int    `json:"count" xml:"count" yaml:"count" toml:"count"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "json", contentType: "application/json", body: `{"name":"oak","count":3}`},
		{name: "json suffix", contentType: "application/vnd.forest+json", body: `{"name":"oak","count":3}`},
		{name: "missing type as json", contentType: "", body: `{"name":"oak","count":3}`},
		{name: "xml", contentType: "application/xml", body: `<item><name>oak</name><count>3</count></item>`},
		{name: "yaml", contentType: "application/yaml", body: "name: oak\ncount: 3\n"},
		{name: "toml", contentType: "application/toml", body: "name = \"oak\"\ncount = 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got item
			err := Decode(contenttype.Parse(tt.contentType), []byte(tt.body), &got)
			require.NoError(t, err)
			assert.Equal(t, item{Name: "oak", Count: 3}, got)
		})
	}
}

func TestDecodeUnsupported(t *testing.T) {
	var got item
	err := Decode(contenttype.Parse("image/png"), []byte{0x89}, &got)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestDecodeInvalidJSON(t *testing.T) {
	var got item
	err := Unmarshal(FormatJSON, []byte(`{"name":`), &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}
