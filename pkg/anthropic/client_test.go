package anthropic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Hello "},
			{Type: "tool_use", Name: "score_podcast"},
			{Type: "text", Text: "world"},
		},
	}
	assert.Equal(t, "Hello world", resp.Text())
}

func TestMessageResponse_ToolInput(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Scoring now."},
			{Type: "tool_use", Name: "score_podcast", Input: json.RawMessage(`{"score":82}`)},
		},
	}

	input, ok := resp.ToolInput("score_podcast")
	require.True(t, ok)
	assert.JSONEq(t, `{"score":82}`, string(input))

	_, ok = resp.ToolInput("other_tool")
	assert.False(t, ok)
}

func TestMessageResponse_ToolInput_NoToolUse(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{{Type: "text", Text: "I refuse."}},
	}
	_, ok := resp.ToolInput("score_podcast")
	assert.False(t, ok)
}

func TestBuildCachedSystemBlocks(t *testing.T) {
	blocks := BuildCachedSystemBlocks("You vet podcasts.")
	require.Len(t, blocks, 1)
	assert.Equal(t, "You vet podcasts.", blocks[0].Text)
	require.NotNil(t, blocks[0].CacheControl)
	assert.Equal(t, "1h", blocks[0].CacheControl.TTL)
}
