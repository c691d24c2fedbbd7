package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeItems(t *testing.T) {
	items := []LineItem{
		{Product: tee(), Quantity: 2, Size: "M", Color: "Black"},
	}

	data, err := EncodeItems(items)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":"29.99"`)

	got, err := DecodeItems(data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "prod-tee", got[0].Product.ID)
	assert.Equal(t, 2, got[0].Quantity)
	assertDecimal(t, "29.99", got[0].Product.Price)
}

func TestEncodeItems_NilIsEmptyArray(t *testing.T) {
	data, err := EncodeItems(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeItems_NumericPrice(t *testing.T) {
	payload := `[{"product":{"id":"p1","name":"Tee","price":29.99,"sizes":["M"],"colors":["Black"]},"quantity":1,"size":"M","color":"Black"}]`

	got, err := DecodeItems([]byte(payload))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assertDecimal(t, "29.99", got[0].Product.Price)
}

func TestDecodeItems_Null(t *testing.T) {
	got, err := DecodeItems([]byte("null"))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecodeItems_Malformed(t *testing.T) {
	payloads := []string{
		`{"items":[]}`,
		`"cart"`,
		`[{"quantity":"two"}]`,
		`not json`,
		``,
	}

	for _, p := range payloads {
		got, err := DecodeItems([]byte(p))
		assert.Error(t, err, "payload %q", p)
		assert.Nil(t, got)
	}
}
