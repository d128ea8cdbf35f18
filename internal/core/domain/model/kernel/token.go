package kernel

import (
	"crypto/rand"
	"encoding/base64"

	"dispatch/internal/pkg/errs"
)

// tokenByteLength is the entropy of a public token before encoding.
// 24 random bytes encode to 32 URL-safe characters, which is unguessable
// for the purpose of share links.
const tokenByteLength = 24

// ErrTokenIsNotConstructed indicates a Token that was not created through
// NewToken or TokenFromString.
var ErrTokenIsNotConstructed = errs.NewValueIsRequiredError(
	"Token must be created via NewToken or TokenFromString")

// Token is the unlinkable public identifier of a delivery. It is the only
// identifier ever exposed in outward links, so that delivery IDs cannot be
// enumerated by recipients.
//
// Token is immutable and safe for concurrent use. The zero value is invalid
// and fails Validate.
type Token struct {
	value string
}

// NewToken generates a new random, URL-safe public token.
func NewToken() Token {
	buf := make([]byte, tokenByteLength)
	// rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(buf)
	return Token{value: base64.RawURLEncoding.EncodeToString(buf)}
}

// TokenFromString reconstructs a Token from its string representation,
// typically when resolving an inbound capture link or loading from persistence.
// Returns an error if the string is empty or not valid URL-safe base64.
func TokenFromString(s string) (Token, error) {
	if s == "" {
		return Token{}, errs.NewValueIsRequiredError("token")
	}
	if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
		return Token{}, errs.NewValueIsInvalidErrorWithCause("token", err)
	}
	return Token{value: s}, nil
}

// String returns the URL-safe string representation of the token.
func (t Token) String() string {
	return t.value
}

// IsEqual compares two tokens for equality.
func (t Token) IsEqual(other Token) bool {
	return t.value == other.value
}

// Validate checks that the token was properly constructed.
func (t Token) Validate() error {
	if t.value == "" {
		return ErrTokenIsNotConstructed
	}
	return nil
}
