package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCityTag(t *testing.T) {
	assert.Equal(t, "las vegas-prompts", CityTag("Las Vegas", PromptsTag))
	assert.Equal(t, "", CityTag("", PromptsTag))
}

func TestOwnerTag(t *testing.T) {
	assert.Equal(t, "u123-prompts", OwnerTag("u123", PromptsTag))
	assert.Equal(t, "public-prompts", OwnerTag("", PromptsTag))
	assert.Equal(t, "public-discoveries", OwnerTag("", DiscoveriesTag))
}
