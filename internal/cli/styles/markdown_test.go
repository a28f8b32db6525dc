package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	out, err := Markdown("| Task | Assignee |\n|---|---|\n| Wire checkout | Unassigned |\n", CardWidth)
	require.NoError(t, err)
	assert.Contains(t, out, "Wire checkout")
	assert.Contains(t, out, "Unassigned")

	again, err := getRenderer(CardWidth)
	require.NoError(t, err)
	cached, ok := rendererCache.Load(CardWidth)
	require.True(t, ok)
	assert.Same(t, cached, again)
}

func TestCell(t *testing.T) {
	assert.Equal(t, `a \| b`, Cell("a | b"))
	assert.Equal(t, "one two", Cell("one\ntwo"))
}
