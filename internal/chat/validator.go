package chat

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// MaxMessageUnits is the outgoing message cap in UTF-16 code units, the unit
// browser clients of the same service count in.
const MaxMessageUnits = 200

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrTooLong      = fmt.Errorf("message exceeds %d characters", MaxMessageUnits)
)

// ValidateOutgoing checks that text may be sent as a chat message.
func ValidateOutgoing(text string) error {
	if text == "" {
		return ErrEmptyMessage
	}
	if UTF16Len(text) > MaxMessageUnits {
		return ErrTooLong
	}
	return nil
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// TruncateInput cuts s to at most MaxMessageUnits UTF-16 code units without
// splitting a character. It is applied where input is captured.
func TruncateInput(s string) string {
	n := 0
	for i, r := range s {
		u := runeUnits(r)
		if n+u > MaxMessageUnits {
			return s[:i]
		}
		n += u
	}
	return s
}

func runeUnits(r rune) int {
	if u := utf16.RuneLen(r); u > 0 {
		return u
	}
	return 1
}
