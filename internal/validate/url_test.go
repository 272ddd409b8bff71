package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURL(t *testing.T) {

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "http", in: "http://example.com", want: true},
		{name: "https with port and path", in: "https://example.com:8080/api", want: true},
		{name: "not a url", in: "not-a-url", want: false},
		{name: "empty", in: "", want: false},
		{name: "missing scheme", in: "example.com/upload", want: false},
		{name: "wrong scheme", in: "ftp://example.com", want: false},
		{name: "scheme only", in: "https://", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.in))
		})
	}
}

func TestJoinAPIURL(t *testing.T) {

	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{name: "no slashes", base: "http://h", path: "upload", want: "http://h/upload"},
		{name: "trailing slash on base", base: "http://h/", path: "upload", want: "http://h/upload"},
		{name: "leading slash on path", base: "http://h", path: "/upload", want: "http://h/upload"},
		{name: "both slashes", base: "http://h/", path: "/upload", want: "http://h/upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinAPIURL(tt.base, tt.path))
		})
	}
}
