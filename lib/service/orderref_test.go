package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeOrderRefFormat(t *testing.T) {
	assert.Equal(t, "nv-42-7", EncodeOrderRef(42, 7))
}

func TestOrderRefRoundTrip(t *testing.T) {
	pairs := [][2]int64{
		{42, 7},
		{1, 1},
		{0, 0},
		{9223372036854775807, 12345},
	}
	for _, pair := range pairs {
		userId, invoiceId, err := DecodeOrderRef(EncodeOrderRef(pair[0], pair[1]))
		assert.NoError(t, err)
		assert.Equal(t, pair[0], userId)
		assert.Equal(t, pair[1], invoiceId)
	}
}

func TestDecodeOrderRefRejectsForeignReferences(t *testing.T) {
	malformed := []string{
		"",
		"nv",
		"nv-42",
		"nv-42-",
		"nv--7",
		"nv-42-7-9",
		"xx-42-7",
		"nv-42-7 ",
		" nv-42-7",
		"nv-4a-7",
		"NV-42-7",
		"order_abc123",
	}
	for _, ref := range malformed {
		_, _, err := DecodeOrderRef(ref)
		assert.ErrorIs(t, err, ErrMalformedReference, "ref %q", ref)
	}
}
