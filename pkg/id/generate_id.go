// Package id mints the public identifiers of loans, installments and ledger
// entries.
package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var re32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (version 4) UUID as 32 lowercase hex characters,
// without dashes.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// Valid reports whether s has the shape NewID32 produces.
func Valid(s string) bool { return re32.MatchString(s) }
