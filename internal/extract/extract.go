// Package extract normalizes free-form LLM output into structured results.
// Models routinely ignore format instructions, so every path degrades
// instead of erroring.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/quicknote/quicknote-api/pkg/notes"
	notesdb "github.com/quicknote/quicknote-api/pkg/notes-db"
)

// Translation treats the whole reply as the translated text.
func Translation(raw string) string {
	return strings.TrimSpace(raw)
}

// DraftJSON locates the outermost brace pair in raw and parses it as a
// draft. Missing fields default to empty strings. The second return value
// reports whether a parseable brace pair was found.
func DraftJSON(raw string) (notes.Draft, bool) {
	trimmed := strings.TrimSpace(raw)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < 0 || start >= end {
		return notes.Draft{}, false
	}

	var draft notes.Draft
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &draft); err != nil {
		return notes.Draft{}, false
	}
	return draft, true
}

// Draft applies the full fallback ladder to a generate reply:
// a brace-delimited JSON object wins; without braces the first non-empty
// line becomes the title and the rest the content; a malformed object
// degrades to the whole text as content with an empty title.
func Draft(raw string) notes.Draft {
	trimmed := strings.TrimSpace(raw)

	var draft notes.Draft
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	switch {
	case start < 0 || end < 0 || start >= end:
		draft = draftFromLines(trimmed)
	default:
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &draft); err != nil {
			draft = notes.Draft{Content: raw}
		}
	}

	draft.Title = TruncateTitle(draft.Title)
	return draft
}

func draftFromLines(text string) notes.Draft {
	lines := strings.Split(text, "\n")
	title := ""
	rest := []string{}
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			title = strings.TrimSpace(line)
			rest = lines[i+1:]
			break
		}
	}
	return notes.Draft{
		Title:   title,
		Content: strings.TrimSpace(strings.Join(rest, "\n")),
	}
}

// TruncateTitle enforces the store's title cap on extracted titles.
func TruncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > notesdb.MaxTitleLength {
		return string(runes[:notesdb.MaxTitleLength])
	}
	return title
}
