package settings

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const fallbackAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a random identifier for a group or rule. Uniqueness is
// probabilistic; nothing checks for collisions.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fallbackID()
}

// fallbackID is used when the system random source is unavailable.
func fallbackID() string {
	var b strings.Builder
	b.WriteString("fn_")
	for range 10 {
		b.WriteByte(fallbackAlphabet[rand.IntN(len(fallbackAlphabet))])
	}
	return b.String()
}
