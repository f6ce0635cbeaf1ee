package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/soyeahso/lingochat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const untranslatedFrame = `{"id":"m1","sender":{"id":"u2","name":"Bob","language":"th"},"originalContent":"hi","originalLanguage":"th","translatedContent":"","translatedLanguage":"vi","timestamp":"2024-01-01T00:00:00Z"}`

func TestDecodeUntranslated(t *testing.T) {
	msg, err := Decode([]byte(untranslatedFrame))
	require.NoError(t, err)

	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, domain.Sender{ID: "u2", Name: "Bob", Language: "th"}, msg.Sender)
	assert.Equal(t, "hi", msg.OriginalContent)
	assert.Equal(t, "th", msg.OriginalLanguage)
	assert.Empty(t, msg.TranslatedContent)
	assert.Equal(t, "vi", msg.TranslatedLanguage)
	assert.True(t, msg.Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, msg.HasTranslation())
}

func TestDecodeTranslated(t *testing.T) {
	raw := `{"id":"m2","sender":{"id":"u3","name":"Chai","language":"th"},"originalContent":"สวัสดี","originalLanguage":"th","translatedContent":"xin chào","translatedLanguage":"vi","timestamp":"2024-03-05T10:11:12.345Z"}`

	msg, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.True(t, msg.HasTranslation())
	assert.Equal(t, "xin chào", msg.TranslatedContent)
	assert.Equal(t, 345*time.Millisecond, time.Duration(msg.Timestamp.Nanosecond()))
}

func TestDecodeMissingTranslationFields(t *testing.T) {
	raw := `{"id":"m3","sender":{"id":"u1","name":"Ann","language":"vi"},"originalContent":"hello","timestamp":"2024-01-01T00:00:00+07:00"}`

	msg, err := Decode([]byte(raw))
	require.NoError(t, err)
	assert.False(t, msg.HasTranslation())
	assert.Empty(t, msg.TranslatedLanguage)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing string
	}{
		{"empty input", "", ""},
		{"not json", "Hi!, 大家好!", ""},
		{"json array", `[1,2,3]`, ""},
		{"json string", `"hello"`, ""},
		{"json null", `null`, "id"},
		{"empty object", `{}`, "id"},
		{"wrong type", `{"id":5}`, ""},
		{"missing sender", `{"id":"m1","originalContent":"hi","timestamp":"2024-01-01T00:00:00Z"}`, "sender"},
		{"missing sender id", `{"id":"m1","sender":{"name":"Bob","language":"th"},"originalContent":"hi","timestamp":"2024-01-01T00:00:00Z"}`, "sender.id"},
		{"missing sender name", `{"id":"m1","sender":{"id":"u2","language":"th"},"originalContent":"hi","timestamp":"2024-01-01T00:00:00Z"}`, "sender.name"},
		{"missing sender language", `{"id":"m1","sender":{"id":"u2","name":"Bob"},"originalContent":"hi","timestamp":"2024-01-01T00:00:00Z"}`, "sender.language"},
		{"empty original content", `{"id":"m1","sender":{"id":"u2","name":"Bob","language":"th"},"originalContent":"","timestamp":"2024-01-01T00:00:00Z"}`, "originalContent"},
		{"missing timestamp", `{"id":"m1","sender":{"id":"u2","name":"Bob","language":"th"},"originalContent":"hi"}`, "timestamp"},
		{"bad timestamp", `{"id":"m1","sender":{"id":"u2","name":"Bob","language":"th"},"originalContent":"hi","timestamp":"yesterday"}`, ""},
		{"truncated", untranslatedFrame[:40], ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedPayload)
			assert.Equal(t, domain.ChatMessage{}, msg)
			if tt.missing != "" {
				assert.Contains(t, err.Error(), tt.missing)
			}
		})
	}
}

func TestDecodeIsTotal(t *testing.T) {
	inputs := []string{
		"\x00\xff\xfe",
		strings.Repeat("{", 1000),
		`{"sender":null}`,
		`{"sender":[]}`,
		`{"id":"x","sender":{"id":"","name":"","language":""}}`,
		untranslatedFrame + "trailing",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, err := Decode([]byte(in))
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func TestEncode(t *testing.T) {
	frame, err := Encode("xin chào")
	require.NoError(t, err)
	assert.Equal(t, []byte("xin chào"), frame)

	_, err = Encode("")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = Encode(strings.Repeat("a", 201))
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestIsOwnMessage(t *testing.T) {
	msg := domain.ChatMessage{Sender: domain.Sender{ID: "u1"}}
	assert.True(t, IsOwnMessage(msg, "u1"))
	assert.False(t, IsOwnMessage(msg, "u2"))
	assert.False(t, IsOwnMessage(domain.ChatMessage{}, ""))
}
