// Package render formats chat messages for the terminal.
package render

import (
	"fmt"
	"io"

	"github.com/soyeahso/lingochat/internal/chat"
	"github.com/soyeahso/lingochat/internal/domain"
)

// TimeFormat is the layout of the message header time, in local time.
const TimeFormat = "15:04:05"

const ownMarker = " *"

// Message writes msg as a header line, the original content and, only when
// present, the translation. Messages sent from localID are marked.
func Message(w io.Writer, msg domain.ChatMessage, localID string) error {
	marker := ""
	if chat.IsOwnMessage(msg, localID) {
		marker = ownMarker
	}

	if _, err := fmt.Fprintf(w, "%s (%s)%s - %s\n",
		msg.Sender.Name, msg.Sender.Language, marker, msg.Timestamp.Local().Format(TimeFormat)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s\n", msg.OriginalContent); err != nil {
		return err
	}
	if msg.HasTranslation() {
		if _, err := fmt.Fprintf(w, "  Translated (%s): %s\n", msg.TranslatedLanguage, msg.TranslatedContent); err != nil {
			return err
		}
	}
	return nil
}

// History writes every message in order.
func History(w io.Writer, msgs []domain.ChatMessage, localID string) error {
	if len(msgs) == 0 {
		_, err := fmt.Fprintln(w, "(no messages yet)")
		return err
	}
	for _, m := range msgs {
		if err := Message(w, m, localID); err != nil {
			return err
		}
	}
	return nil
}

// State writes a one-line connection status.
func State(w io.Writer, s domain.ConnectionState, id domain.SessionIdentity) error {
	_, err := fmt.Fprintf(w, "[%s] %s (%s)\n", s, id.DisplayName, domain.LanguageName(id.PreferredLanguage))
	return err
}
