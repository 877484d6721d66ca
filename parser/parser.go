package parser

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// This package turns a caller-supplied context URL into plain text for
// prompt enrichment. Pages are fetched statically; anything that needs
// client-side rendering is simply treated as unextractable.

const maxBodyBytes = 4 << 20

var httpClient = &http.Client{Timeout: 15 * time.Second}

// FetchHTML fetches the raw HTML of a URL.
func FetchHTML(url string) (string, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// main extractor
func ExtractWithReadability(htmlStr string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return "", err
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

func ExtractWithTrafilatura(htmlStr string) (string, error) {
	opts := trafilatura.Options{}

	article, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return "", err
	}
	return article.ContentText, nil
}

func ExtractWithGoose(htmlStr string) (string, error) {
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, "")
	if err != nil {
		return "", err
	}
	return article.CleanedText, nil
}

// ExtractText runs the extractor chain over raw HTML and returns the
// first non-empty result.
func ExtractText(htmlStr string) (string, error) {
	if text, err := ExtractWithReadability(htmlStr); err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if text, err := ExtractWithTrafilatura(htmlStr); err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	text, err := ExtractWithGoose(htmlStr)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no extractable text")
	}
	return text, nil
}

// ContextFromURL fetches a URL and extracts its plain text, truncated
// to maxRunes for prompt use.
func ContextFromURL(url string, maxRunes int) (string, error) {
	htmlStr, err := FetchHTML(url)
	if err != nil {
		return "", err
	}
	text, err := ExtractText(htmlStr)
	if err != nil {
		return "", err
	}
	return Truncate(strings.TrimSpace(text), maxRunes), nil
}

// Truncate returns s truncated to max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max])
}
