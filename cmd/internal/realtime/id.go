package realtime

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewConnID returns a ULID used as the connection id.
// ULIDs sort by creation time, which keeps log correlation cheap.
func NewConnID(now time.Time) string {
	return newULID(now)
}

// NewEnvelopeID returns a ULID used as the outbound envelope id.
func NewEnvelopeID(now time.Time) string {
	return newULID(now)
}

func newULID(now time.Time) string {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		// Entropy exhaustion is effectively unreachable; fall back to plain
		// random hex rather than surface an error on every id mint.
		return newRandomHex(10)
	}
	return id.String()
}

// newRandomHex returns a random hex string of length 2*nBytes.
func newRandomHex(nBytes int) string {
	if nBytes <= 0 {
		nBytes = 16
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
