package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"/create/", "/create/"},
		{"/profile/leo/?page=2", "/profile/leo/?page=2"},
		{"", "/"},
		{"create/", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
		{"/\t/evil.example", "/"},
		{"/\n/evil.example", "/"},
		{"/ok\x00", "/"},
		{"https://evil.example/", "/"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, safeNext(tt.next), "%q", tt.next)
	}
}
