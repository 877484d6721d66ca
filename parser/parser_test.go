package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"experience-nv/parser"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Red Rock Canyon Guide</title></head>
<body>
  <nav>Home | About | Contact</nav>
  <article>
    <h1>Red Rock Canyon Guide</h1>
    <p>Red Rock Canyon National Conservation Area sits a short drive west of
    Las Vegas. The thirteen-mile scenic loop opens at six in the morning and
    the early light on the sandstone is worth the alarm.</p>
    <p>Calico Basin is free to enter and far quieter than the loop. Bring
    more water than you think you need; there is none on the trails.</p>
  </article>
</body>
</html>`

func TestExtractTextFindsArticleBody(t *testing.T) {
	text, err := parser.ExtractText(sampleHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "thirteen-mile scenic loop")
	assert.Contains(t, text, "Calico Basin")
}

func TestExtractWithReadability(t *testing.T) {
	text, err := parser.ExtractWithReadability(sampleHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "sandstone")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", parser.Truncate("abc", 10))
	assert.Equal(t, "ab", parser.Truncate("abc", 2))
	assert.Equal(t, "abc", parser.Truncate("abc", 0))
	// rune-aware, not byte-aware
	assert.Equal(t, "né", parser.Truncate("néon", 2))
}
