package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a ULID string, used for system-assigned user ids. ULIDs are
// lexicographically sortable by creation time and safe as DynamoDB partition
// keys. Callers that restrict the id namespace (reserved names) filter the
// result themselves.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
