package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicknote/quicknote-api/pkg/notes"
)

func TestTranslate(t *testing.T) {
	msgs := Translate("hello world", "Chinese")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "into Chinese")
	assert.Contains(t, msgs[0].Content, "only the translated text")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "hello world", msgs[1].Content)
}

func TestGenerateNote(t *testing.T) {
	msgs := GenerateNote("plan a picnic", "French")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "30 characters")
	assert.Contains(t, msgs[0].Content, "written in French")
	assert.Contains(t, msgs[0].Content, "\"title\"")
	assert.Contains(t, msgs[0].Content, "\"content\"")
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "plan a picnic", msgs[1].Content)
}

func TestRetranslate(t *testing.T) {
	draft := notes.Draft{Title: "Lunch", Content: "Meet at \"noon\"."}
	msgs := Retranslate(draft, "Chinese")
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "into Chinese")
	assert.Equal(t, "user", msgs[1].Role)
	// The draft is embedded as valid JSON even when fields contain quotes.
	assert.Contains(t, msgs[1].Content, `"title"`)
	assert.Contains(t, msgs[1].Content, `\"noon\"`)
}

func TestChat(t *testing.T) {
	msgs := Chat("hi there")
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "hi there", msgs[0].Content)
}
