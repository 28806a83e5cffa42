package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string for a verification or user record. The
// entropy comes from crypto/rand, so identifiers cannot be predicted from
// previously issued ones.
func New() string {
	return NewAt(time.Now())
}

// NewAt generates a ULID whose timestamp component is t.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
