package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text", in: "buy milk", want: "buy milk"},
		{name: "tags stripped", in: "<b>bold</b> and <script>alert(1)</script>", want: "bold and "},
		{name: "typed symbols kept", in: "a & b < c", want: "a & b < c"},
		{name: "newlines normalized", in: "one\r\ntwo\nthree", want: "one\ntwo\nthree"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeText(tt.in))
		})
	}
}
