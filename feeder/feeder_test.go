package feeder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"experience-nv/feeder"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Travel Nevada</title>
    <item>
      <title>Great Basin Star Train Returns</title>
      <link>https://example.com/star-train</link>
      <pubDate>Mon, 04 Aug 2025 08:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Burning Man Road Closures</title>
      <link>https://example.com/closures</link>
      <pubDate>Fri, 01 Aug 2025 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Hot Springs Etiquette Guide</title>
      <link>https://example.com/springs</link>
    </item>
  </channel>
</rss>`

func TestParseFeedWithLimit(t *testing.T) {
	items, err := feeder.ParseFeed(sampleFeed, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Great Basin Star Train Returns", items[0].Title)
	assert.Equal(t, "https://example.com/star-train", items[0].Link)
	assert.False(t, items[0].PublishedAt.IsZero())
}

func TestParseFeedNoLimit(t *testing.T) {
	items, err := feeder.ParseFeed(sampleFeed, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	// missing pubDate stays zero rather than failing the parse
	assert.True(t, items[2].PublishedAt.IsZero())
}

func TestRenderHappenings(t *testing.T) {
	items, err := feeder.ParseFeed(sampleFeed, 2)
	require.NoError(t, err)

	out := feeder.RenderHappenings(items)
	assert.Contains(t, out, "Recent Nevada happenings:")
	assert.Contains(t, out, "- Great Basin Star Train Returns")
	assert.Contains(t, out, "- Burning Man Road Closures")

	assert.Equal(t, "", feeder.RenderHappenings(nil))
}
