package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Premium Cotton T-Shirt", "premium-cotton-t-shirt"},
		{"Slim Fit Jeans", "slim-fit-jeans"},
		{"High-Waisted Dress Pants", "high-waisted-dress-pants"},
		{"  Leather   Jacket  ", "leather-jacket"},
		{"Café Crème Sweater", "cafe-creme-sweater"},
		{"Shirts & Tops", "shirts-and-tops"},
		{"--Hello!!World--", "hello-world"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.input))
		})
	}
}
