package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		mediaType string
		charset   string
		empty     bool
	}{
		{name: "json with charset", value: "application/json; charset=UTF-8", mediaType: "application/json", charset: "UTF-8"},
		{name: "quoted charset", value: `text/html; charset="GBK"`, mediaType: "text/html", charset: "GBK"},
		{name: "upper case type", value: "TEXT/Plain", mediaType: "text/plain"},
		{name: "blank", value: "   ", empty: true},
		{name: "duplicate params fall back", value: "text/plain; charset=a; charset=b", mediaType: "text/plain", charset: "a"},
		{name: "no subtype", value: "text", mediaType: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := Parse(tt.value)
			assert.Equal(t, tt.empty, ct.IsEmpty())
			assert.Equal(t, tt.mediaType, ct.MediaType())
			assert.Equal(t, tt.charset, ct.Charset())
			assert.Equal(t, tt.value, ct.Raw())
		})
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		value  string
		str    bool
		binary bool
	}{
		{value: "application/json", str: true},
		{value: "application/problem+json", str: true},
		{value: "text/html; charset=utf-8", str: true},
		{value: "text/csv", str: true},
		{value: "application/xml", str: true},
		{value: "application/atom+xml", str: true},
		{value: "application/x-www-form-urlencoded", str: true},
		{value: "application/javascript", str: true},
		{value: "application/yaml", str: true},
		{value: "image/png", binary: true},
		{value: "image/x-forest-unknown", binary: true},
		{value: "video/mp4", binary: true},
		{value: "application/octet-stream", binary: true},
		{value: "application/pdf", binary: true},
		{value: "application/zip", binary: true},
		{value: "multipart/form-data; boundary=x"},
		{value: "application/vnd.forest.custom"},
		{value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ct := Parse(tt.value)
			assert.Equal(t, tt.str, ct.CanReadAsString(), "CanReadAsString")
			assert.Equal(t, tt.binary, ct.CanReadAsBinaryStream(), "CanReadAsBinaryStream")
		})
	}
}

func TestNilContentTypeIsEmpty(t *testing.T) {
	var ct *ContentType
	assert.True(t, ct.IsEmpty())
	assert.False(t, ct.CanReadAsString())
	assert.False(t, ct.CanReadAsBinaryStream())
}

func TestString(t *testing.T) {
	ct := Parse("image/png; q=1")
	assert.Equal(t, "image/png", ct.String())
	assert.Equal(t, "1", ct.Param("Q"))
}
