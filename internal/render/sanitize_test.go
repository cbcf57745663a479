package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizedStripsScripts(t *testing.T) {
	conv := Sanitized(NewMarkdown(Options{Unsafe: true}), NewSanitizer())

	out, err := conv.Convert("hello\n\n<script>alert(1)</script>\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<p>hello</p>")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
}

func TestSanitizedKeepsFormatting(t *testing.T) {
	conv := Sanitized(NewMarkdown(Options{}), NewSanitizer())

	out, err := conv.Convert("**Bold** [link](http://example.org/)")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Bold</strong>")
	assert.Contains(t, out, `href="http://example.org/"`)
}
