package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnString(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"testmetest", 0, ""},
		{"testmetest", 1, "."},
		{"testmetest", 2, ".."},
		{"testmetest", 3, "..."},
		{"testmetest", 4, "t..."},
		{"", 6, "      "},
		{"test", 6, "test  "},
		{"testme", 6, "testme"},
		{"testmetest", 6, "tes..."},
		{"héllo wörld", 8, "héllo..."},
		{"abc", -1, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ColumnString(tt.text, tt.width), "ColumnString(%q, %d)", tt.text, tt.width)
	}
}
