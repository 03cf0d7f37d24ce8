package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiEncoder(t *testing.T) {
	enc, err := NewGeminiEncoder("key", "", 384)
	require.NoError(t, err)
	assert.Equal(t, 384, enc.Dimensions())
	assert.Equal(t, defaultGeminiEmbedModel, enc.model)

	enc, err = NewGeminiEncoder("key", "gemini-embedding-001", 256)
	require.NoError(t, err)
	assert.Equal(t, 256, enc.Dimensions())
}

func TestNewGeminiEncoderRejectsBadConfig(t *testing.T) {
	_, err := NewGeminiEncoder("", "", 384)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")

	_, err = NewGeminiEncoder("key", "", 0)
	require.Error(t, err)

	_, err = NewGeminiEncoder("key", "", -1)
	require.Error(t, err)
}
