package feeder

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"experience-nv/config"
)

type FeedItem struct {
	Title       string
	Link        string
	PublishedAt time.Time
}

// FetchFeed fetches RSS/Atom items from the given URL.
// If limit is greater than 0, it returns only the first limit items.
func FetchFeed(feedURL string, limit int) ([]FeedItem, error) {
	fp := gofeed.NewParser()

	feed, err := fp.ParseURL(feedURL)
	if err != nil {
		return nil, err
	}
	return collectItems(feed, limit), nil
}

// ParseFeed parses feed XML already in hand (tests, cached bodies).
func ParseFeed(xml string, limit int) ([]FeedItem, error) {
	fp := gofeed.NewParser()

	feed, err := fp.ParseString(xml)
	if err != nil {
		return nil, err
	}
	return collectItems(feed, limit), nil
}

func collectItems(feed *gofeed.Feed, limit int) []FeedItem {
	var items []FeedItem
	for _, item := range feed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		items = append(items, FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			PublishedAt: published,
		})
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// HappeningsContext fetches the configured Nevada happenings feed and
// renders recent titles as a prompt context block. Best-effort: any
// failure returns an empty string.
func HappeningsContext() string {
	cfg := config.GetConfig().Feeds
	if cfg.HappeningsURL == "" {
		return ""
	}
	limit := cfg.HappeningsLimit
	if limit <= 0 {
		limit = 5
	}

	items, err := FetchFeed(cfg.HappeningsURL, limit)
	if err != nil || len(items) == 0 {
		return ""
	}
	return RenderHappenings(items)
}

// RenderHappenings formats feed items as a bullet list for the prompt.
func RenderHappenings(items []FeedItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent Nevada happenings:")
	for _, it := range items {
		fmt.Fprintf(&b, "\n- %s", it.Title)
	}
	return b.String()
}
