package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicknote/quicknote-api/internal/llm"
)

type fakeCall struct {
	model    string
	messages []llm.Message
	opts     llm.Options
}

// fakeCompleter replays canned replies (or errors) in order and records
// every call it receives.
type fakeCompleter struct {
	calls   []fakeCall
	replies []string
	errs    []error
}

func (f *fakeCompleter) Complete(_ context.Context, model string, messages []llm.Message, opts llm.Options) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, fakeCall{model: model, messages: messages, opts: opts})
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", errors.New("unexpected call")
}

func newTestService(fake *fakeCompleter) *Service {
	return NewService(Config{
		Completer:        fake,
		Model:            "note-model",
		ChatModel:        "chat-model",
		TargetLanguage:   "Chinese",
		GenerateLanguage: "English",
	})
}

func TestChat(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"hello back"}}
	svc := newTestService(fake)

	reply, err := svc.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello back", reply)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, "chat-model", call.model)
	require.Len(t, call.messages, 1)
	assert.Equal(t, "user", call.messages[0].Role)
	assert.Equal(t, 512, call.opts.MaxTokens)
}

func TestTranslateTrimsReply(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"  translated text \n"}}
	svc := newTestService(fake)

	got, err := svc.Translate(context.Background(), "source", "")
	require.NoError(t, err)
	assert.Equal(t, "translated text", got)

	require.Len(t, fake.calls, 1)
	// Empty target falls back to the service default.
	assert.Contains(t, fake.calls[0].messages[0].Content, "into Chinese")
	assert.Equal(t, "note-model", fake.calls[0].model)
}

func TestGenerateNoteDefaultLanguageSingleCall(t *testing.T) {
	fake := &fakeCompleter{replies: []string{`{"title":"Lunch","content":"Meet at noon."}`}}
	svc := newTestService(fake)

	draft, err := svc.GenerateNote(context.Background(), "note about lunch", "")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", draft.Title)
	assert.Equal(t, "Meet at noon.", draft.Content)

	require.Len(t, fake.calls, 1)
	assert.Equal(t, 0.2, fake.calls[0].opts.Temperature)
}

func TestGenerateNoteWithTranslationTwoCalls(t *testing.T) {
	fake := &fakeCompleter{replies: []string{
		`{"title":"Lunch","content":"Meet at noon."}`,
		`{"title":"午餐","content":"中午见。"}`,
	}}
	svc := newTestService(fake)

	draft, err := svc.GenerateNote(context.Background(), "note about lunch", "Chinese")
	require.NoError(t, err)
	assert.Equal(t, "午餐", draft.Title)
	assert.Equal(t, "中午见。", draft.Content)

	require.Len(t, fake.calls, 2)
	assert.Contains(t, fake.calls[0].messages[0].Content, "written in Chinese")
	assert.Contains(t, fake.calls[1].messages[0].Content, "into Chinese")
	assert.Contains(t, fake.calls[1].messages[1].Content, "Lunch")
}

func TestGenerateNoteUnparseableTranslationReplacesContentOnly(t *testing.T) {
	// When the second pass returns no parseable JSON, the raw reply
	// replaces the content wholesale and the first-pass title sticks.
	fake := &fakeCompleter{replies: []string{
		`{"title":"Lunch","content":"Meet at noon."}`,
		"午餐：中午见。",
	}}
	svc := newTestService(fake)

	draft, err := svc.GenerateNote(context.Background(), "note about lunch", "Chinese")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", draft.Title)
	assert.Equal(t, "午餐：中午见。", draft.Content)
	assert.Len(t, fake.calls, 2)
}

func TestGenerateNoteTranslationErrorSwallowed(t *testing.T) {
	fake := &fakeCompleter{
		replies: []string{`{"title":"Lunch","content":"Meet at noon."}`, ""},
		errs:    []error{nil, errors.New("provider timeout")},
	}
	svc := newTestService(fake)

	draft, err := svc.GenerateNote(context.Background(), "note about lunch", "Chinese")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", draft.Title)
	assert.Equal(t, "Meet at noon.", draft.Content)
}

func TestGenerateNoteTranslationContentFilterPropagates(t *testing.T) {
	fake := &fakeCompleter{
		replies: []string{`{"title":"Lunch","content":"Meet at noon."}`, ""},
		errs:    []error{nil, errors.New("rejected: content_filter")},
	}
	svc := newTestService(fake)

	_, err := svc.GenerateNote(context.Background(), "note about lunch", "Chinese")
	require.Error(t, err)
	assert.True(t, llm.IsContentFiltered(err))
}

func TestGenerateNoteFirstPassErrorPropagates(t *testing.T) {
	fake := &fakeCompleter{errs: []error{errors.New("boom")}}
	svc := newTestService(fake)

	_, err := svc.GenerateNote(context.Background(), "prompt", "")
	assert.Error(t, err)
	assert.Len(t, fake.calls, 1)
}
