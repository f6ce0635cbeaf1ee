package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func msg(senderID, translated string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:                 "m1",
		Sender:             domain.Sender{ID: senderID, Name: "Bob", Language: "vi"},
		OriginalContent:    "xin chào",
		OriginalLanguage:   "vi",
		TranslatedContent:  translated,
		TranslatedLanguage: "zh-Hans",
		Timestamp:          ts,
	}
}

func TestMessageWithTranslation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Message(&buf, msg("u2", "你好"), "u1"))

	want := "Bob (vi) - " + ts.Local().Format(TimeFormat) + "\n" +
		"  xin chào\n" +
		"  Translated (zh-Hans): 你好\n"
	assert.Equal(t, want, buf.String())
}

func TestMessageWithoutTranslation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Message(&buf, msg("u2", ""), "u1"))

	assert.NotContains(t, buf.String(), "Translated")
	assert.Contains(t, buf.String(), "  xin chào\n")
}

func TestMessageOwnMarker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Message(&buf, msg("u1", ""), "u1"))
	assert.Contains(t, buf.String(), "Bob (vi) * - ")

	buf.Reset()
	require.NoError(t, Message(&buf, msg("u1", ""), ""))
	assert.NotContains(t, buf.String(), " * ")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, nil, "u1"))
	assert.Equal(t, "(no messages yet)\n", buf.String())

	buf.Reset()
	first, second := msg("u2", ""), msg("u3", "")
	first.OriginalContent = "one"
	second.OriginalContent = "two"
	require.NoError(t, History(&buf, []domain.ChatMessage{first, second}, "u1"))

	out := buf.String()
	assert.Less(t, bytes.Index([]byte(out), []byte("one")), bytes.Index([]byte(out), []byte("two")))
}

func TestState(t *testing.T) {
	var buf bytes.Buffer
	id := domain.SessionIdentity{SessionID: "x", DisplayName: "Alice", PreferredLanguage: "th"}
	require.NoError(t, State(&buf, domain.StateOpen, id))
	assert.Equal(t, "[open] Alice (Thai)\n", buf.String())
}
