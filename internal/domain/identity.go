package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultDisplayName is used when the caller supplies no name.
const DefaultDisplayName = "Anonymous"

// SessionIdentity identifies one chat view activation to the chat service.
// It is immutable once built.
//
// SessionID is random and local to this activation. It groups own messages for
// display and is not a security boundary or a uniqueness guarantee.
type SessionIdentity struct {
	SessionID         string `json:"userId"`
	DisplayName       string `json:"userName"`
	PreferredLanguage string `json:"language"`
}

// NewIdentity builds an identity with a fresh session id. Blank values fall
// back to DefaultDisplayName and DefaultLanguage.
func NewIdentity(displayName, language string) SessionIdentity {
	if strings.TrimSpace(displayName) == "" {
		displayName = DefaultDisplayName
	}
	if language == "" {
		language = DefaultLanguage
	}
	return SessionIdentity{
		SessionID:         uuid.NewString(),
		DisplayName:       displayName,
		PreferredLanguage: language,
	}
}
