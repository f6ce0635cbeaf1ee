// Package chat converts between wire frames and the chat message model and
// keeps the ordered, in-memory message history of a session.
package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/soyeahso/lingochat/internal/domain"
)

// ErrMalformedPayload is returned by Decode for any frame that does not
// describe a complete chat message.
var ErrMalformedPayload = errors.New("malformed payload")

// wireSender and wireMessage mirror the inbound JSON shape. Validation tags
// name the fields the service must populate.
type wireSender struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Language string `json:"language" validate:"required"`
}

type wireMessage struct {
	ID                 string      `json:"id" validate:"required"`
	Sender             *wireSender `json:"sender" validate:"required"`
	OriginalContent    string      `json:"originalContent" validate:"required"`
	OriginalLanguage   string      `json:"originalLanguage"`
	TranslatedContent  string      `json:"translatedContent"`
	TranslatedLanguage string      `json:"translatedLanguage"`
	Timestamp          string      `json:"timestamp" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses one inbound frame. It never panics: any input either yields a
// message or an error wrapping ErrMalformedPayload. An empty translatedContent
// is valid and means the message is untranslated.
func Decode(raw []byte) (domain.ChatMessage, error) {
	var w wireMessage
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if err := validate.Struct(&w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return domain.ChatMessage{}, fmt.Errorf("%w: missing %s", ErrMalformedPayload, missingFields(verrs))
		}
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	ts, err := time.Parse(time.RFC3339, w.Timestamp)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("%w: timestamp %q is not ISO-8601", ErrMalformedPayload, w.Timestamp)
	}

	return domain.ChatMessage{
		ID: w.ID,
		Sender: domain.Sender{
			ID:       w.Sender.ID,
			Name:     w.Sender.Name,
			Language: w.Sender.Language,
		},
		OriginalContent:    w.OriginalContent,
		OriginalLanguage:   w.OriginalLanguage,
		TranslatedContent:  w.TranslatedContent,
		TranslatedLanguage: w.TranslatedLanguage,
		Timestamp:          ts,
	}, nil
}

// missingFields renders validation failures as dotted JSON paths,
// e.g. "sender.id".
func missingFields(verrs validator.ValidationErrors) string {
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if _, rest, ok := strings.Cut(ns, "."); ok {
			ns = rest
		}
		fields = append(fields, ns)
	}
	return strings.Join(fields, ", ")
}

// Encode validates outgoing text and returns the frame to transmit. Text is
// sent verbatim; the service attributes sender and language from the session.
func Encode(text string) ([]byte, error) {
	if err := ValidateOutgoing(text); err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// IsOwnMessage reports whether msg was authored by the local session. It is a
// display grouping check only.
func IsOwnMessage(msg domain.ChatMessage, localID string) bool {
	return localID != "" && msg.Sender.ID == localID
}
