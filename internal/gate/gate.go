// Package gate checks the shared PIN that guards locked notes.
//
// The PIN only gates what the UI reveals. Notes, locked or not, are stored
// in plaintext and the PIN itself is persisted as a raw string.
package gate

import (
	"context"
	"crypto/subtle"
	"errors"

	"pocketdesk/pkg/logger"
)

var (
	ErrNoPinConfigured = errors.New("no PIN configured")
	ErrIncorrectPin    = errors.New("incorrect PIN")
)

// Secrets holds the single shared PIN. *store.Store satisfies it.
type Secrets interface {
	PIN() (string, bool)
	SetPIN(ctx context.Context, pin string) error
}

type Gate struct {
	secrets Secrets
}

func New(secrets Secrets) *Gate {
	return &Gate{secrets: secrets}
}

// Configured reports whether a PIN has been registered.
func (g *Gate) Configured() bool {
	_, ok := g.secrets.PIN()
	return ok
}

// Register sets the PIN unconditionally. Length and character rules are the
// caller's business.
func (g *Gate) Register(ctx context.Context, pin string) error {
	return g.secrets.SetPIN(ctx, pin)
}

// Change replaces the PIN when old matches the current one.
func (g *Gate) Change(ctx context.Context, old, pin string) bool {
	current, ok := g.secrets.PIN()
	if !ok || !equal(current, old) {
		return false
	}
	if err := g.secrets.SetPIN(ctx, pin); err != nil {
		logger.Warn(ctx, "PIN change not applied", "error", err)
		return false
	}
	return true
}

// Verify checks input against the PIN and runs onSuccess exactly once when
// it matches. A mismatch leaves everything as it was; the caller may retry.
func (g *Gate) Verify(input string, onSuccess func()) error {
	current, ok := g.secrets.PIN()
	if !ok {
		return ErrNoPinConfigured
	}
	if !equal(current, input) {
		return ErrIncorrectPin
	}
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
