package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResult(t *testing.T) {
	r := NewResult("dQw4w9WgXcQ", []Entry{{Text: "hello"}, {Text: "world"}})
	assert.Equal(t, "hello world", r.FullText)

	empty := NewResult("dQw4w9WgXcQ", nil)
	assert.Equal(t, "", empty.FullText)
	assert.NotNil(t, empty.Entries)
}

func TestEnvelope(t *testing.T) {
	r := NewResult("dQw4w9WgXcQ", []Entry{{Text: "a"}, {Text: "b", Start: 1, Duration: 1}})
	env := r.Envelope()

	assert.Equal(t, "dQw4w9WgXcQ", env.VideoID)
	assert.Equal(t, "a b", env.Transcript)
	assert.Equal(t, 2, env.TotalEntries)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatJSON, true},
		{"json", FormatJSON, true},
		{"text", FormatText, true},
		{"raw", FormatRaw, true},
		{" raw ", FormatRaw, true},
		{"xml", FormatJSON, false},
		{"TEXT", FormatJSON, false},
	}

	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
