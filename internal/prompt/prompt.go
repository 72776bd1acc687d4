// Package prompt builds the message sequences sent to the LLM gateway.
// Construction is pure: no I/O, no state.
package prompt

import (
	"fmt"

	"github.com/quicknote/quicknote-api/internal/llm"
	"github.com/quicknote/quicknote-api/pkg/notes"
)

// GenerateTemperature keeps note generation close to deterministic.
const GenerateTemperature = 0.2

// Translate asks for a plain translation of text into target. The reply is
// expected to be the translated text and nothing else.
func Translate(text string, target string) []llm.Message {
	system := fmt.Sprintf(
		"You are a helpful translator. Translate the user's text into %s. "+
			"Preserve meaning and formatting. Return only the translated text without commentary.",
		target)
	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: text},
	}
}

// GenerateNote asks for a note draft as a bare JSON object. The extractor
// still has to tolerate models that ignore the format instructions.
func GenerateNote(userPrompt string, language string) []llm.Message {
	system := fmt.Sprintf(
		"You are a note-taking assistant. From the user's prompt, produce a short note "+
			"title of at most 30 characters and a content of 1-4 sentences, written in %s. "+
			"Respond strictly with a single JSON object with exactly two string fields, "+
			"\"title\" and \"content\". Do not wrap the JSON in markdown and do not add commentary.",
		language)
	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: userPrompt},
	}
}

// Retranslate asks for the draft's two fields translated into target,
// returned in the same JSON shape.
func Retranslate(draft notes.Draft, target string) []llm.Message {
	system := fmt.Sprintf(
		"You are a helpful translator. Translate the \"title\" and \"content\" fields of the "+
			"user's JSON object into %s. Respond strictly with a single JSON object with the "+
			"same two string fields, \"title\" and \"content\", and no commentary.",
		target)
	user := fmt.Sprintf("{\"title\": %q, \"content\": %q}", draft.Title, draft.Content)
	return []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
}

// Chat is a passthrough: the caller's prompt as a single user message.
func Chat(userPrompt string) []llm.Message {
	return []llm.Message{
		{Role: "user", Content: userPrompt},
	}
}
