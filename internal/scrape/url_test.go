package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"Example.COM/", "https://example.com"},
		{"  https://Example.com/About/  ", "https://example.com/About"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://www.Example.com", "https://www.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanURL_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "https://", "http://%zz"} {
		_, err := CleanURL(in)
		assert.Error(t, err, in)
	}
}

func TestDomain(t *testing.T) {
	d, err := Domain("www.Example.com/about")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", d)

	d, err = Domain("http://localhost:8080/x")
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", d)
}
