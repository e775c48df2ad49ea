package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReply = `{
	"output": [
		{
			"text": "The travel policy caps hotel spend at $300 per night.",
			"citations": [
				{"chunk_index": 2, "chunk_source_id": "3f8a1b2c-9d4e-4f5a-8b6c-7d8e9f0a1b2c", "chunk_lines_from": 10, "chunk_lines_to": 18}
			]
		},
		{
			"text": "Exceptions need prior written approval.",
			"citations": [
				{"chunk_index": 5, "chunk_source_id": "aaaa1111-9d4e-4f5a-8b6c-7d8e9f0a1b2c", "chunk_lines_from": 3, "chunk_lines_to": 4}
			]
		}
	]
}`

func TestTransformResolvesKnownSources(t *testing.T) {
	titles := map[string]string{
		"3f8a1b2c-9d4e-4f5a-8b6c-7d8e9f0a1b2c": "Travel Policy 2026.pdf",
	}

	segments := Transform(sampleReply, titles)
	require.Len(t, segments, 2)

	assert.Equal(t, "The travel policy caps hotel spend at $300 per night.", segments[0].Text)
	require.Len(t, segments[0].Citations, 1)
	assert.Equal(t, "Travel Policy 2026.pdf", segments[0].Citations[0].SourceTitle)
	assert.Equal(t, 2, segments[0].Citations[0].ChunkIndex)
	assert.Equal(t, 10, segments[0].Citations[0].LinesFrom)
	assert.Equal(t, 18, segments[0].Citations[0].LinesTo)
}

func TestTransformFallsBackToPlaceholder(t *testing.T) {
	segments := Transform(sampleReply, map[string]string{})
	require.Len(t, segments, 2)
	assert.Equal(t, "Source Reference 3f8a1b2c...", segments[0].Citations[0].SourceTitle)
	assert.Equal(t, "Source Reference aaaa1111...", segments[1].Citations[0].SourceTitle)
}

func TestTransformEmptyTitleGetsPlaceholder(t *testing.T) {
	titles := map[string]string{
		"3f8a1b2c-9d4e-4f5a-8b6c-7d8e9f0a1b2c": "",
	}
	segments := Transform(sampleReply, titles)
	assert.Equal(t, "Source Reference 3f8a1b2c...", segments[0].Citations[0].SourceTitle)
}

func TestTransformPlainTextContent(t *testing.T) {
	segments := Transform("just a human message", nil)
	require.Len(t, segments, 1)
	assert.Equal(t, "just a human message", segments[0].Text)
	assert.Empty(t, segments[0].Citations)
}

func TestTransformMalformedJSONDegrades(t *testing.T) {
	content := `{"output": [{"text":`
	segments := Transform(content, nil)
	require.Len(t, segments, 1)
	assert.Equal(t, content, segments[0].Text)
}

func TestPlaceholderTitleShortId(t *testing.T) {
	assert.Equal(t, "Source Reference abc...", PlaceholderTitle("abc"))
}
