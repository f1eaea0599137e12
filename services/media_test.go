package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyStable(t *testing.T) {
	first := ObjectKey("media", "https://cdn.example.com/maya.jpg")
	second := ObjectKey("media", "https://cdn.example.com/maya.jpg")
	assert.Equal(t, first, second, "same URL must map to the same key")
}

func TestObjectKeyDistinctURLs(t *testing.T) {
	a := ObjectKey("media", "https://cdn.example.com/maya.jpg")
	b := ObjectKey("media", "https://cdn.example.com/ben.jpg")
	assert.NotEqual(t, a, b)
}

func TestObjectKeyExtension(t *testing.T) {
	assert.Contains(t, ObjectKey("media", "https://cdn.example.com/kirinyaga.png"), ".png")

	// Query strings and missing extensions fall back to jpg.
	assert.Contains(t, ObjectKey("media", "https://cdn.example.com/photo.png?w=400"), ".png")
	assert.Contains(t, ObjectKey("media", "https://cdn.example.com/photo"), ".jpg")
}

func TestObjectKeyRootPrefix(t *testing.T) {
	assert.True(t, len(ObjectKey("", "https://cdn.example.com/x.jpg")) > 0)
	key := ObjectKey("media", "https://cdn.example.com/x.jpg")
	assert.Equal(t, "media/", key[:6])
}
