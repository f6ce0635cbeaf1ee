package domain

import "time"

// Sender is the author of a chat message, local or remote.
type Sender struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
}

// ChatMessage is one message as delivered by the chat service, carrying the
// original text and, when available, its translation.
type ChatMessage struct {
	ID                 string    `json:"id"`
	Sender             Sender    `json:"sender"`
	OriginalContent    string    `json:"originalContent"`
	OriginalLanguage   string    `json:"originalLanguage"`
	TranslatedContent  string    `json:"translatedContent"`
	TranslatedLanguage string    `json:"translatedLanguage"`
	Timestamp          time.Time `json:"timestamp"`
}

// HasTranslation reports whether a translation should be displayed.
func (m ChatMessage) HasTranslation() bool {
	return m.TranslatedContent != ""
}
