package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var (
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
)

// NewID32 returns a random (v4) UUID as exactly 32 lowercase hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// IsID32 reports whether s has the NewID32 shape.
func IsID32(s string) bool { return reHex32.MatchString(s) }

// IsClientID accepts what clients may send as session or request ids: the
// NewID32 shape or a lowercase v1-v5 UUID.
func IsClientID(s string) bool { return reHex32.MatchString(s) || reUUID.MatchString(s) }
