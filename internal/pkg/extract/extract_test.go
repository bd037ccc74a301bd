package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlain(t *testing.T) {
	out, err := Text([]byte("hello world\nsecond line"), ContentTypeText)
	require.NoError(t, err)
	assert.Equal(t, "hello world\nsecond line", out)
}

func TestTextPlainDropsInvalidUTF8(t *testing.T) {
	out, err := Text([]byte{'o', 'k', 0xff, 0xfe, '!'}, ContentTypeText)
	require.NoError(t, err)
	assert.Equal(t, "ok!", out)
}

func TestTextUnsupportedType(t *testing.T) {
	_, err := Text([]byte("%PDF-1.4"), "application/msword")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "application/msword")
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text([]byte("not a pdf at all"), ContentTypePDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestTextEmptyPlain(t *testing.T) {
	out, err := Text(nil, ContentTypeText)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
