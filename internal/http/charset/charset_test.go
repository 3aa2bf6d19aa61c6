package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{token: "UTF-8", want: "UTF-8", ok: true},
		{token: "ISO-8859-1", want: "ISO-8859-1", ok: true},
		{token: "GB2312", want: "GB2312", ok: true},
		{token: "gb2312", ok: false},
		{token: "utf-8", ok: false},
		{token: "gzip", ok: false},
		{token: "br", ok: false},
		{token: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Validate(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonical(t *testing.T) {
	name, ok := Canonical("UTF-8")
	assert.True(t, ok)
	assert.Equal(t, "UTF-8", name)

	name, ok = Canonical("gb2312")
	assert.True(t, ok)
	assert.Equal(t, "GB2312", name)

	_, ok = Canonical("not-a-charset")
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	t.Run("utf-8 default", func(t *testing.T) {
		assert.Equal(t, `{"a":1}`, Decode([]byte(`{"a":1}`), ""))
	})

	t.Run("unknown name falls back to utf-8", func(t *testing.T) {
		assert.Equal(t, "héllo", Decode([]byte("héllo"), "x-unknown"))
	})

	t.Run("latin-1", func(t *testing.T) {
		data, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte("café"))
		assert.NoError(t, err)
		assert.Equal(t, "café", Decode(data, "ISO-8859-1"))
	})

	t.Run("gbk", func(t *testing.T) {
		data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("森林"))
		assert.NoError(t, err)
		assert.Equal(t, "森林", Decode(data, "GBK"))
	})

	t.Run("gb2312 decodes as its superset", func(t *testing.T) {
		data, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("森林"))
		assert.NoError(t, err)
		assert.Equal(t, "森林", Decode(data, "GB2312"))
	})

	t.Run("whatwg label", func(t *testing.T) {
		data, err := charmap.Windows1252.NewEncoder().Bytes([]byte("€"))
		assert.NoError(t, err)
		assert.Equal(t, "€", Decode(data, "cp1252"))
	})
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("UTF-8"))
	assert.True(t, Supported("latin1"))
	assert.False(t, Supported("gzip"))
	assert.False(t, Supported(""))
}

func TestDetect(t *testing.T) {
	_, ok := Detect(nil)
	assert.False(t, ok)

	name, ok := Detect([]byte("plain ascii text"))
	assert.True(t, ok)
	assert.Equal(t, Default, name)
}
